package manager

import (
	"context"
)

type Geocoding interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

type Weather interface {
	Get(ctx context.Context, latitude, longitude float64) (Snapshot, error)
}

// SelectionStore persists the last selected location in a single slot.
// Load reports false when nothing usable is stored.
type SelectionStore interface {
	Load(ctx context.Context) (Location, bool, error)
	Save(ctx context.Context, location Location) error
}

type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1"`
	CountryCode string  `json:"country_code,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
}

// Title is the "name, admin1, country" line shown for suggestions and headers.
func (l Location) Title() string {
	title := l.Name
	for _, part := range []string{l.Admin1, l.Country} {
		if part == "" {
			continue
		}
		title += ", " + part
	}
	return title
}

type Snapshot struct {
	Timezone string  `json:"timezone,omitempty"`
	Current  Current `json:"current"`
	Hourly   Hourly  `json:"hourly"`
}

type Current struct {
	Time        string  `json:"time,omitempty"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windSpeed"`
	Rain        float64 `json:"rain"`
}

// Hourly holds four index-aligned series: index i of each describes the same hour.
type Hourly struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
	WindSpeed   []float64 `json:"windSpeed"`
}

// Len is the length of the shortest series, the only safe bound for indexing.
func (h Hourly) Len() int {
	n := len(h.Time)
	for _, l := range []int{len(h.Temperature), len(h.Humidity), len(h.WindSpeed)} {
		if l < n {
			n = l
		}
	}
	return n
}
