package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/meteoinsight/internal/weather"
)

func testSettings() weather.Settings {
	s := weather.DefaultSettings()
	s.APIKey = "abc123"
	s.StationID = "IBERLIN123"
	s.PostalKey = "10115:DE"
	s.Coordinates = &weather.Coordinates{Latitude: 52.52, Longitude: 13.405}
	return s
}

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func clientConfig(baseURL string) HTTPClientConfig {
	return HTTPClientConfig{
		Client:  &http.Client{Timeout: 2 * time.Second},
		BaseURL: baseURL,
	}
}

func TestHourlySourceSuccess(t *testing.T) {
	var gotQuery string
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/wx/forecast/hourly/12hour/enterprise", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"validTimeLocal":["2024-05-06T07:00:00+0200","2024-05-06T08:00:00+0200"],"temperature":[10,null],"precipChance":null}`))
	})

	periods, err := NewHourlySource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, 10.0, *periods[0].Temperature)
	assert.Nil(t, periods[1].Temperature)
	assert.Nil(t, periods[0].PrecipChance)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "units=m&language=de-DE&format=json&apiKey=abc123&postalKey=10115%3ADE", gotQuery)
}

func TestDailySourceSuccess(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.52,13.405", r.URL.Query().Get("geocode"))
		_, _ = w.Write([]byte(`{"validTimeLocal":["a","b"],"temperatureMax":[20,21],
			"daypart":[{"dayOrNight":["D","N","D","N"],"temperature":[20,10,21,11]}]}`))
	})

	days, err := NewDailySource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 11, *days[1].Night.Temperature)
}

func TestObservationSourceNoContent(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	periods, err := NewObservationSource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestFetchServerError(t *testing.T) {
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"error":{"code":"CDN-0001"}}]}`, http.StatusInternalServerError)
	})

	_, err := NewHourlySource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrServer)

	var fe *weather.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestFetchDecodeError(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"validTimeLocal":["a"],"temperature":"warm"}`))
	})

	_, err := NewHourlySource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrDecode)

	var fe *weather.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "temperature", fe.Path)
}

func TestFetchMalformedJSON(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations": [`))
	})

	_, err := NewObservationSource(clientConfig(srv.URL)).Fetch(context.Background(), testSettings())
	assert.Equal(t, weather.KindDecodeError, weather.KindOf(err))
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewDailySource(clientConfig(url)).Fetch(context.Background(), testSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrNetwork)
}

func TestFetchConfigurationInvalidMakesNoCall(t *testing.T) {
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	s := testSettings()
	s.APIKey = weather.PlaceholderAPIKey

	_, err := NewObservationSource(clientConfig(srv.URL)).Fetch(context.Background(), s)
	assert.ErrorIs(t, err, weather.ErrConfigurationInvalid)
	assert.Zero(t, calls.Load())
}

func TestFetchWithoutClient(t *testing.T) {
	_, err := NewDailySource(HTTPClientConfig{}).Fetch(context.Background(), testSettings())
	assert.ErrorIs(t, err, weather.ErrNetwork)
}

func TestErrorStatusesNeverOpenCircuit(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			src := NewHourlySource(clientConfig(srv.URL))
			for i := 1; i <= 10; i++ {
				_, err := src.Fetch(context.Background(), testSettings())
				require.ErrorIs(t, err, weather.ErrServer)

				var fe *weather.FetchError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, status, fe.StatusCode)
				assert.Equal(t, int32(i), calls.Load(), "every cycle reaches the server")
			}
		})
	}
}

func TestCircuitOpensAfterTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := NewDailySource(clientConfig(url))
	for i := 0; i < 6; i++ {
		_, err := src.Fetch(context.Background(), testSettings())
		require.ErrorIs(t, err, weather.ErrNetwork)
	}

	_, err := src.Fetch(context.Background(), testSettings())
	require.ErrorIs(t, err, weather.ErrNetwork)
	assert.ErrorIs(t, err, errCircuitOpen)
}
