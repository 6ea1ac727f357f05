// Package forecast derives the display views from a weather snapshot.
package forecast

import (
	"time"

	"meteo/manager"
)

const (
	HoursShown = 24
	DaysShown  = 7

	IconSun   = "sun"
	IconCloud = "cloud"

	sunThreshold = 25.0
	placeholder  = "--"
)

// Open-Meteo reports local time without a zone when timezone=auto.
var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339}

type Hour struct {
	Time        string  `json:"time"`
	Label       string  `json:"label"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
}

type Day struct {
	Time        string  `json:"time"`
	Day         string  `json:"day"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
}

type Current struct {
	Temperature float64  `json:"temperature"`
	WindSpeed   float64  `json:"windSpeed"`
	Rain        float64  `json:"rain"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Icon        string   `json:"icon"`
}

type View struct {
	Location *manager.Location `json:"location,omitempty"`
	Timezone string            `json:"timezone,omitempty"`
	Current  Current           `json:"current"`
	Hourly   []Hour            `json:"hourly"`
	Daily    []Day             `json:"daily"`
}

// Icon picks the indicator for a temperature in °C. Only temperature matters.
func Icon(temperature float64) string {
	if temperature > sunThreshold {
		return IconSun
	}
	return IconCloud
}

// Hourly returns the first min(24, L) hours of the snapshot.
func Hourly(snapshot manager.Snapshot) []Hour {
	h := snapshot.Hourly
	n := min(HoursShown, h.Len())

	hours := make([]Hour, 0, n)
	for i := 0; i < n; i++ {
		label := placeholder
		if t, ok := parseTime(h.Time[i]); ok {
			label = t.Format("15:04")
		}
		hours = append(hours, Hour{
			Time:        h.Time[i],
			Label:       label,
			Temperature: h.Temperature[i],
			Humidity:    h.Humidity[i],
			WindSpeed:   h.WindSpeed[i],
			Icon:        Icon(h.Temperature[i]),
		})
	}
	return hours
}

// Daily samples the hourly series at a 24 hour stride, one entry per complete day,
// at most seven.
func Daily(snapshot manager.Snapshot) []Day {
	h := snapshot.Hourly
	n := min(DaysShown, h.Len()/24)

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		idx := i * 24
		day := placeholder
		if t, ok := parseTime(h.Time[idx]); ok {
			day = t.Format("Mon")
		}
		days = append(days, Day{
			Time:        h.Time[idx],
			Day:         day,
			Temperature: h.Temperature[idx],
			Humidity:    h.Humidity[idx],
			WindSpeed:   h.WindSpeed[idx],
			Icon:        Icon(h.Temperature[idx]),
		})
	}
	return days
}

func NewView(location *manager.Location, snapshot manager.Snapshot) View {
	current := Current{
		Temperature: snapshot.Current.Temperature,
		WindSpeed:   snapshot.Current.WindSpeed,
		Rain:        snapshot.Current.Rain,
		Icon:        Icon(snapshot.Current.Temperature),
	}
	if snapshot.Hourly.Len() > 0 {
		humidity := snapshot.Hourly.Humidity[0]
		current.Humidity = &humidity
	}

	return View{
		Location: location,
		Timezone: snapshot.Timezone,
		Current:  current,
		Hourly:   Hourly(snapshot),
		Daily:    Daily(snapshot),
	}
}

func parseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
