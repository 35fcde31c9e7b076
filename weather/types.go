package weather

import "time"

// Bundle is the normalized forecast shape the portal consumes: current
// conditions plus the next 24 hourly points counted from the moment the
// cache entry was refreshed.
type Bundle struct {
	Current Current     `json:"current"`
	Next24h []HourPoint `json:"next24h"`
}

// Current holds the observed conditions at fetch time.
type Current struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperature_c"`
	ApparentC    float64   `json:"apparent_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	WindKmh      float64   `json:"wind_kmh"`
	WeatherCode  int       `json:"weather_code"`
	Condition    string    `json:"condition"`
}

// HourPoint is one hour of the forecast window.
type HourPoint struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperature_c"`
	PrecipPct    int       `json:"precip_pct"`
	WeatherCode  int       `json:"weather_code"`
	Condition    string    `json:"condition"`
}

// forecastResponse mirrors the upstream JSON. Hourly series arrive as
// parallel arrays; times are requested as unix seconds to sidestep
// timezone formatting.
type forecastResponse struct {
	Current struct {
		Time          int64   `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		Humidity2m    float64 `json:"relative_humidity_2m"`
		ApparentTemp  float64 `json:"apparent_temperature"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Time          []int64   `json:"time"`
		Temperature2m []float64 `json:"temperature_2m"`
		PrecipProb    []int     `json:"precipitation_probability"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"hourly"`
}
