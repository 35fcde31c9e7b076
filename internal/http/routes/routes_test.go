package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/require"

	"github.com/Javiko0420/plataforma-colombiana-sub000/apifootball"
	"github.com/Javiko0420/plataforma-colombiana-sub000/exchangerate"
	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
	"github.com/Javiko0420/plataforma-colombiana-sub000/sportsdb"
	"github.com/Javiko0420/plataforma-colombiana-sub000/weather"
)

// newTestServer wires the full stack against one mock upstream serving
// every provider shape.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/forecast":
			now := time.Now().Unix()
			fmt.Fprintf(w, `{
				"current": {"time": %d, "temperature_2m": 14.2, "relative_humidity_2m": 80,
					"apparent_temperature": 13.5, "weather_code": 2, "wind_speed_10m": 8},
				"hourly": {"time": [%d], "temperature_2m": [14.2],
					"precipitation_probability": [10], "weather_code": [2]}
			}`, now, now+3600)
		case r.URL.Path == "/v6/latest/COP":
			fmt.Fprint(w, `{"base_code":"COP","rates":{"COP":1,"USD":0.00025,"EUR":0.00023},
				"time_last_update_unix":1704067200}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	gw := gateway.NewGroup(gateway.NewStore(0), zerolog.Nop())
	retry := gateway.NewRetryer()
	retry.SetSleepForTest(func(time.Duration) {})

	s := New(ServerOptions{
		Weather:  weather.New(gw, weather.WithBaseURL(upstream.URL), weather.WithRetryer(retry)),
		Football: apifootball.New("k", gw, apifootball.WithBaseURL(upstream.URL), apifootball.WithRetryer(retry)),
		SportsDB: sportsdb.New("k", gw, sportsdb.WithBaseURL(upstream.URL), sportsdb.WithRetryer(retry)),
		Rates:    exchangerate.New(gw, exchangerate.WithBaseURL(upstream.URL+"/v6"), exchangerate.WithRetryer(retry)),
	})

	h := hlog.NewHandler(zerolog.Nop())(s.Router)
	api := httptest.NewServer(h)
	t.Cleanup(api.Close)
	return api
}

func TestWeatherEndpoint(t *testing.T) {
	api := newTestServer(t)

	resp, err := http.Get(api.URL + "/api/weather?lat=4.7110&lon=-74.0721")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bundle weather.Bundle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bundle))
	require.Equal(t, 14.2, bundle.Current.TemperatureC)
	require.Equal(t, "Parcialmente nublado", bundle.Current.Condition)
}

func TestWeatherEndpointBadParams(t *testing.T) {
	api := newTestServer(t)

	resp, err := http.Get(api.URL + "/api/weather?lat=abc&lon=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConvertEndpoint(t *testing.T) {
	api := newTestServer(t)

	resp, err := http.Get(api.URL + "/api/convert?amount=100&from=USD&to=EUR")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conv exchangerate.Conversion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
	require.InDelta(t, 100/0.00025*0.00023, conv.Result, 1e-9)
}

func TestConvertEndpointUnknownCurrency(t *testing.T) {
	api := newTestServer(t)

	resp, err := http.Get(api.URL + "/api/convert?amount=100&from=USD&to=XYZ")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	api := newTestServer(t)

	// The mock upstream 404s unknown paths, which the gateway treats as
	// fatal; with an empty cache the handler must degrade to a 502.
	resp, err := http.Get(api.URL + "/api/standings?league=239&season=2024")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	api := newTestServer(t)

	resp, err := http.Get(api.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRequestIDEchoed(t *testing.T) {
	api := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, api.URL+"/healthz", nil)
	req.Header.Set("X-Request-Id", "test-id-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "test-id-123", resp.Header.Get("X-Request-Id"))
}
