// Package weather fetches forecasts from an Open-Meteo style provider and
// normalizes them into the portal's weather bundle.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Javiko0420/plataforma-colombiana-sub000/gateway"
)

const DefaultBaseURL = "https://api.open-meteo.com"

const (
	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"
	hourlyFields  = "temperature_2m,precipitation_probability,weather_code"
	forecastHours = 48
	windowHours   = 24
)

// Client talks to the weather provider through the gateway's cache and
// retry infrastructure.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	gw      *gateway.Group
	retry   gateway.Retryer
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithRetryer(r gateway.Retryer) Option {
	return func(c *Client) { c.retry = r }
}

// New returns a weather client backed by gw.
func New(gw *gateway.Group, opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: u,
		gw:      gw,
		retry:   gateway.NewRetryer(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Forecast returns current conditions plus the next 24 hourly points for
// the given coordinates. Results are cached per rounded coordinate pair;
// a stale bundle is served if the provider is down.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Bundle, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("weather: coordinates out of range: %f, %f", lat, lon)
	}

	params := gateway.Params{}.
		SetCoord("latitude", lat).
		SetCoord("longitude", lon)
	key := gateway.Key("weather/forecast", params)
	ttl := gateway.TTLFor(gateway.Hints{}, c.now())

	bundle, _, err := gateway.Fetch(ctx, c.gw, key, ttl, func(ctx context.Context) (*Bundle, error) {
		return c.fetchForecast(ctx, lat, lon)
	})
	return bundle, err
}

func (c *Client) fetchForecast(ctx context.Context, lat, lon float64) (*Bundle, error) {
	u := *c.baseURL
	u.Path = "/v1/forecast"
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", currentFields)
	q.Set("hourly", hourlyFields)
	q.Set("forecast_hours", strconv.Itoa(forecastHours))
	q.Set("timezone", "auto")
	q.Set("timeformat", "unixtime")
	u.RawQuery = q.Encode()

	var bundle *Bundle
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		raw, err := c.getJSON(ctx, u.String())
		if err != nil {
			return err
		}
		bundle, err = buildBundle(raw, c.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

func (c *Client) getJSON(ctx context.Context, url string) (*forecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &gateway.StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, gateway.BadResponse("weather: %v", err)
	}
	return &raw, nil
}

// buildBundle validates the parallel hourly arrays and cuts the series
// down to the 24 points at or after now. The window is anchored to the
// refresh moment, so every cached read within the TTL sees the same hours.
func buildBundle(raw *forecastResponse, now time.Time) (*Bundle, error) {
	h := raw.Hourly
	n := len(h.Time)
	if n == 0 {
		return nil, gateway.BadResponse("weather: empty hourly series")
	}
	if len(h.Temperature2m) != n || len(h.PrecipProb) != n || len(h.WeatherCode) != n {
		return nil, gateway.BadResponse("weather: hourly arrays of unequal length")
	}

	points := make([]HourPoint, 0, windowHours)
	for i := 0; i < n && len(points) < windowHours; i++ {
		t := time.Unix(h.Time[i], 0).UTC()
		if t.Before(now) {
			continue
		}
		points = append(points, HourPoint{
			Time:         t,
			TemperatureC: h.Temperature2m[i],
			PrecipPct:    h.PrecipProb[i],
			WeatherCode:  h.WeatherCode[i],
			Condition:    ConditionLabel(h.WeatherCode[i]),
		})
	}

	cur := raw.Current
	return &Bundle{
		Current: Current{
			Time:         time.Unix(cur.Time, 0).UTC(),
			TemperatureC: cur.Temperature2m,
			ApparentC:    cur.ApparentTemp,
			HumidityPct:  cur.Humidity2m,
			WindKmh:      cur.WindSpeed10m,
			WeatherCode:  cur.WeatherCode,
			Condition:    ConditionLabel(cur.WeatherCode),
		},
		Next24h: points,
	}, nil
}
