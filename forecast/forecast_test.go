package forecast

import (
	"fmt"
	"testing"
	"time"

	"meteo/manager"
)

// series builds n hourly entries starting at 2024-06-03T00:00 (a Monday).
func series(n int) manager.Snapshot {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	h := manager.Hourly{}
	for i := 0; i < n; i++ {
		h.Time = append(h.Time, start.Add(time.Duration(i)*time.Hour).Format("2006-01-02T15:04"))
		h.Temperature = append(h.Temperature, float64(i%40))
		h.Humidity = append(h.Humidity, float64(50+i%30))
		h.WindSpeed = append(h.WindSpeed, float64(i%15)+0.5)
	}
	return manager.Snapshot{Hourly: h}
}

func TestViewLengths(t *testing.T) {
	tests := []struct {
		l          int
		hours, day int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{23, 23, 0},
		{24, 24, 1},
		{47, 24, 1},
		{48, 24, 2},
		{100, 24, 4},
		{167, 24, 6},
		{168, 24, 7},
		{192, 24, 7},
		{384, 24, 7},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.l), func(t *testing.T) {
			snap := series(tt.l)
			if got := len(Hourly(snap)); got != tt.hours {
				t.Fatalf("hourly: got %d want %d", got, tt.hours)
			}
			if got := len(Daily(snap)); got != tt.day {
				t.Fatalf("daily: got %d want %d", got, tt.day)
			}
		})
	}
}

func TestIconThreshold(t *testing.T) {
	temps := []float64{26, 24, 10, 30, 25, 25.1}
	want := []string{IconSun, IconCloud, IconCloud, IconSun, IconCloud, IconSun}
	for i, temp := range temps {
		if got := Icon(temp); got != want[i] {
			t.Fatalf("Icon(%v) = %s, want %s", temp, got, want[i])
		}
	}
}

func TestHourlyIconsFollowTemperature(t *testing.T) {
	snap := manager.Snapshot{Hourly: manager.Hourly{
		Time:        []string{"2024-06-01T00:00", "2024-06-01T01:00", "2024-06-01T02:00", "2024-06-01T03:00"},
		Temperature: []float64{26, 24, 10, 30},
		Humidity:    []float64{40, 41, 42, 43},
		WindSpeed:   []float64{1, 2, 3, 4},
	}}

	hours := Hourly(snap)
	want := []string{IconSun, IconCloud, IconCloud, IconSun}
	for i := range want {
		if hours[i].Icon != want[i] {
			t.Fatalf("hour %d: icon %s want %s", i, hours[i].Icon, want[i])
		}
	}
	if hours[3].Label != "03:00" || hours[3].Humidity != 43 || hours[3].WindSpeed != 4 {
		t.Fatalf("unexpected hour %+v", hours[3])
	}
}

func TestDailySamplesEvery24Hours(t *testing.T) {
	days := Daily(series(168))

	wantDays := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for i, d := range days {
		idx := i * 24
		if d.Day != wantDays[i] {
			t.Fatalf("day %d: got %s want %s", i, d.Day, wantDays[i])
		}
		if d.Temperature != float64(idx%40) || d.Humidity != float64(50+idx%30) || d.WindSpeed != float64(idx%15)+0.5 {
			t.Fatalf("day %d: values not taken from index %d: %+v", i, idx, d)
		}
	}
}

func TestUnequalSeriesAreClamped(t *testing.T) {
	snap := series(48)
	snap.Hourly.WindSpeed = snap.Hourly.WindSpeed[:10]

	if got := len(Hourly(snap)); got != 10 {
		t.Fatalf("expected 10 hours, got %d", got)
	}
	if got := len(Daily(snap)); got != 0 {
		t.Fatalf("expected no complete day, got %d", got)
	}
}

func TestUnparsableTimestampGetsPlaceholder(t *testing.T) {
	snap := series(24)
	snap.Hourly.Time[0] = "yesterday"

	if got := Hourly(snap)[0].Label; got != "--" {
		t.Fatalf("expected placeholder label, got %q", got)
	}
	if got := Daily(snap)[0].Day; got != "--" {
		t.Fatalf("expected placeholder day, got %q", got)
	}
}

func TestRFC3339Timestamps(t *testing.T) {
	snap := manager.Snapshot{Hourly: manager.Hourly{
		Time:        []string{"2024-06-05T17:00:00+02:00"},
		Temperature: []float64{20},
		Humidity:    []float64{60},
		WindSpeed:   []float64{3},
	}}
	if got := Hourly(snap)[0].Label; got != "17:00" {
		t.Fatalf("expected local hour label, got %q", got)
	}
}

func TestNewView(t *testing.T) {
	snap := series(72)
	snap.Current = manager.Current{Temperature: 27.3, WindSpeed: 9.1, Rain: 0.2}
	snap.Timezone = "Europe/Paris"
	loc := &manager.Location{ID: 2988507, Name: "Paris"}

	view := NewView(loc, snap)
	if view.Current.Temperature != 27.3 || view.Current.WindSpeed != 9.1 || view.Current.Rain != 0.2 {
		t.Fatalf("current values modified: %+v", view.Current)
	}
	if view.Current.Icon != IconSun {
		t.Fatalf("expected sun for 27.3, got %s", view.Current.Icon)
	}
	if view.Current.Humidity == nil || *view.Current.Humidity != 50 {
		t.Fatalf("expected humidity from the first hour, got %v", view.Current.Humidity)
	}
	if len(view.Hourly) != 24 || len(view.Daily) != 3 || view.Location != loc || view.Timezone != "Europe/Paris" {
		t.Fatalf("unexpected view %+v", view)
	}

	if empty := NewView(nil, manager.Snapshot{}); empty.Current.Humidity != nil || len(empty.Hourly) != 0 {
		t.Fatalf("expected empty view without humidity, got %+v", empty)
	}
}
