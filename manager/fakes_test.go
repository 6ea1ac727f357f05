package manager

import (
	"context"
	"sync"
)

type fakeGeocoding struct {
	mu      sync.Mutex
	queries []string
	results map[string][]Location
	err     error

	// gates block Search for a query until closed; started reports the query once it is blocked.
	gates   map[string]chan struct{}
	started chan string
}

func (f *fakeGeocoding) Search(ctx context.Context, query string) ([]Location, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		if f.started != nil {
			f.started <- query
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeGeocoding) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type coords struct {
	lat, lon float64
}

type fakeWeather struct {
	mu        sync.Mutex
	requests  []coords
	snapshots map[float64]Snapshot
	err       error

	gates   map[float64]chan struct{}
	started chan float64
}

func (f *fakeWeather) Get(ctx context.Context, latitude, longitude float64) (Snapshot, error) {
	f.mu.Lock()
	f.requests = append(f.requests, coords{latitude, longitude})
	gate := f.gates[latitude]
	f.mu.Unlock()

	if gate != nil {
		if f.started != nil {
			f.started <- latitude
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Snapshot{}, f.err
	}
	return f.snapshots[latitude], nil
}

func (f *fakeWeather) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeWeather) calls() []coords {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]coords(nil), f.requests...)
}

type memoryStore struct {
	mu       sync.Mutex
	location *Location
	saves    int
	loadErr  error
	saveErr  error

	// gates block Save for a location id until closed; started reports the id once it is blocked.
	gates   map[int64]chan struct{}
	started chan int64
}

func (m *memoryStore) Load(context.Context) (Location, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return Location{}, false, m.loadErr
	}
	if m.location == nil {
		return Location{}, false, nil
	}
	return *m.location, true, nil
}

func (m *memoryStore) Save(ctx context.Context, location Location) error {
	m.mu.Lock()
	gate := m.gates[location.ID]
	m.mu.Unlock()

	if gate != nil {
		if m.started != nil {
			m.started <- location.ID
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.location = &location
	return nil
}

func (m *memoryStore) saved() *Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.location == nil {
		return nil
	}
	location := *m.location
	return &location
}

var (
	paris   = Location{ID: 2988507, Name: "Paris", Latitude: 48.85341, Longitude: 2.3488, Country: "France", Admin1: "Île-de-France"}
	parisTX = Location{ID: 4717560, Name: "Paris", Latitude: 33.66094, Longitude: -95.55551, Country: "United States", Admin1: "Texas"}
	berlin  = Location{ID: 2950159, Name: "Berlin", Latitude: 52.52437, Longitude: 13.41053, Country: "Germany", Admin1: "Land Berlin"}
)

func snapshotWithTemp(temp float64) Snapshot {
	return Snapshot{
		Current: Current{Temperature: temp, WindSpeed: 10, Rain: 0},
		Hourly: Hourly{
			Time:        []string{"2024-06-01T00:00"},
			Temperature: []float64{temp},
			Humidity:    []float64{50},
			WindSpeed:   []float64{10},
		},
	}
}
