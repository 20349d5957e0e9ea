package refresh

import (
	"context"

	"github.com/i474232898/meteoinsight/internal/location"
	"github.com/i474232898/meteoinsight/internal/weather"
)

// LocationTarget is anything that re-fetches on a new location.
type LocationTarget interface {
	UpdateLocation(weather.Coordinates) bool
}

// Follow hands every location update to the targets until ctx is done or the
// channel is closed. Provider errors are not interpreted; they go to onError.
func Follow(ctx context.Context, updates <-chan location.Update, onError func(error), targets ...LocationTarget) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Err != nil {
				if onError != nil {
					onError(u.Err)
				}
				continue
			}
			for _, t := range targets {
				t.UpdateLocation(u.Coordinates)
			}
		}
	}
}
