package geocoding

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"meteo/apis"
	"meteo/manager"
)

const (
	DefaultEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	resultCount     = 10
)

func New(endpoint string, timeout time.Duration) *geocoding {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &geocoding{
		endpoint: endpoint,
		client:   apis.NewClient(timeout),
	}
}

type geocoding struct {
	endpoint string
	client   *resty.Client
}

// Search returns up to ten matches for name in the geocoder's relevance order.
func (g geocoding) Search(ctx context.Context, name string) ([]manager.Location, error) {
	params := map[string]string{
		"name":     name,
		"count":    strconv.Itoa(resultCount),
		"language": "en",
		"format":   "json",
	}

	var response struct {
		Results []struct {
			ID          int64   `json:"id"`
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Country     string  `json:"country"`
			CountryCode string  `json:"country_code"`
			Admin1      string  `json:"admin1"`
			Timezone    string  `json:"timezone"`
		} `json:"results"`
	}

	if err := apis.Get(ctx, g.client, manager.OpSuggestions, g.endpoint, params, &response); err != nil {
		return nil, err
	}

	locations := make([]manager.Location, 0, len(response.Results))
	for _, r := range response.Results {
		locations = append(locations, manager.Location{
			ID:          r.ID,
			Name:        r.Name,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Country:     r.Country,
			Admin1:      r.Admin1,
			CountryCode: r.CountryCode,
			Timezone:    r.Timezone,
		})
	}

	return locations, nil
}
