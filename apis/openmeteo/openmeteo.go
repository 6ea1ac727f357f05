package openmeteo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"meteo/apis"
	"meteo/manager"
)

const (
	DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,wind_speed_10m,rain"
	hourlyFields  = "temperature_2m,relative_humidity_2m,wind_speed_10m"
)

func New(endpoint string, timeout time.Duration) *forecast {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &forecast{
		endpoint: endpoint,
		client:   apis.NewClient(timeout),
	}
}

type forecast struct {
	endpoint string
	client   *resty.Client
}

func (f forecast) Get(ctx context.Context, latitude, longitude float64) (manager.Snapshot, error) {
	params := map[string]string{
		"latitude":  strconv.FormatFloat(latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(longitude, 'f', -1, 64),
		"current":   currentFields,
		"hourly":    hourlyFields,
		"timezone":  "auto",
	}

	var r response
	if err := apis.Get(ctx, f.client, manager.OpWeather, f.endpoint, params, &r); err != nil {
		return manager.Snapshot{}, err
	}

	if r.Current == nil || r.Hourly == nil {
		return manager.Snapshot{}, manager.ParseError(manager.OpWeather, errMissingSections)
	}

	return r.snapshot(), nil
}

var errMissingSections = errors.New("forecast response missing current or hourly block")

type response struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
		Rain          float64 `json:"rain"`
	} `json:"current"`
	Hourly *struct {
		Time               []string  `json:"time"`
		Temperature2m      []float64 `json:"temperature_2m"`
		RelativeHumidity2m []float64 `json:"relative_humidity_2m"`
		WindSpeed10m       []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

func (r response) snapshot() manager.Snapshot {
	return manager.Snapshot{
		Timezone: r.Timezone,
		Current: manager.Current{
			Time:        r.Current.Time,
			Temperature: r.Current.Temperature2m,
			WindSpeed:   r.Current.WindSpeed10m,
			Rain:        r.Current.Rain,
		},
		Hourly: manager.Hourly{
			Time:        r.Hourly.Time,
			Temperature: r.Hourly.Temperature2m,
			Humidity:    r.Hourly.RelativeHumidity2m,
			WindSpeed:   r.Hourly.WindSpeed10m,
		},
	}
}
