package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"
)

// MinQueryLength is the shortest trimmed query that reaches the geocoder.
const MinQueryLength = 3

// State is a copy of everything the widget shows.
type State struct {
	Suggestions []Location `json:"suggestions"`
	Selected    *Location  `json:"selected,omitempty"`
	Snapshot    *Snapshot  `json:"snapshot,omitempty"`
	Busy        bool       `json:"busy"`
	Error       string     `json:"error,omitempty"`
}

// Widget is the controller behind both the CLI and the HTTP surface.
// Search and fetch results are tagged with a request token and only the
// latest request of each kind may change state.
type Widget struct {
	geocoding Geocoding
	weather   Weather
	store     SelectionStore
	log       *slog.Logger

	mu          sync.Mutex
	searchSeq   uint64
	selectSeq   uint64
	fetchSeq    uint64
	inFlight    int
	suggestions []Location
	selected    *Location
	snapshot    *Snapshot
	errMsg      string
}

func New(geocoding Geocoding, weather Weather, store SelectionStore) *Widget {
	return &Widget{
		geocoding: geocoding,
		weather:   weather,
		store:     store,
		log:       slog.Default().With("component", "widget"),
	}
}

func (w *Widget) SetLogger(logger *slog.Logger) {
	w.log = logger.With("component", "widget")
}

// Search replaces the suggestion list with the geocoder's matches for query.
// Queries of fewer than MinQueryLength characters clear the list without a lookup.
func (w *Widget) Search(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)

	w.mu.Lock()
	w.searchSeq++
	token := w.searchSeq
	if utf8.RuneCountInString(query) < MinQueryLength {
		w.suggestions = nil
		w.mu.Unlock()
		return nil, nil
	}
	w.mu.Unlock()

	if w.geocoding == nil {
		return nil, fmt.Errorf("geocoding not configured")
	}

	locations, err := w.geocoding.Search(ctx, query)

	w.mu.Lock()
	defer w.mu.Unlock()

	if token != w.searchSeq {
		w.log.Debug("dropping stale suggestions", "query", query, "token", token, "latest", w.searchSeq)
		return locations, err
	}

	if err != nil {
		w.log.Warn("search failed", "query", query, "error", err)
		w.suggestions = nil
		w.errMsg = OpSuggestions.Message()
		return nil, err
	}

	w.suggestions = locations
	return locations, nil
}

// Select makes location current, persists it, clears the suggestions and fetches its weather.
// The selection and its fetch share one critical section, so a later Select always wins
// both the displayed snapshot and the persisted slot.
func (w *Widget) Select(ctx context.Context, location Location) error {
	if w.weather == nil {
		return fmt.Errorf("weather not configured")
	}

	w.mu.Lock()
	selected := location
	w.selected = &selected
	w.suggestions = nil
	w.selectSeq++
	selectToken := w.selectSeq
	fetchToken := w.beginFetch()
	w.mu.Unlock()

	var saveErr error
	if w.store != nil {
		if err := w.persist(ctx, location, selectToken); err != nil {
			w.log.Warn("persisting selection failed", "location", location.Title(), "error", err)
			saveErr = fmt.Errorf("%w: %w", ErrNotSaved, err)
		}
	}

	return errors.Join(saveErr, w.fetch(ctx, location, fetchToken))
}

// persist writes location to the store. When a newer Select started while the write
// was in flight, the newest selection is written again so it lands last.
func (w *Widget) persist(ctx context.Context, location Location, token uint64) error {
	for {
		err := w.store.Save(ctx, location)

		w.mu.Lock()
		latest := w.selectSeq
		current := *w.selected
		w.mu.Unlock()

		if token == latest {
			return err
		}
		w.log.Debug("selection superseded while saving", "saved", location.Title(), "latest", current.Title())
		location, token = current, latest
	}
}

// SelectID selects the current suggestion with the given id.
func (w *Widget) SelectID(ctx context.Context, id int64) error {
	w.mu.Lock()
	var (
		found    Location
		hasFound bool
	)
	for _, suggestion := range w.suggestions {
		if suggestion.ID == id {
			found, hasFound = suggestion, true
			break
		}
	}
	w.mu.Unlock()

	if !hasFound {
		return fmt.Errorf("suggestion %d: %w", id, ErrNotFound)
	}
	return w.Select(ctx, found)
}

// Fetch loads a new snapshot for location. A failure keeps the previous snapshot.
func (w *Widget) Fetch(ctx context.Context, location Location) error {
	if w.weather == nil {
		return fmt.Errorf("weather not configured")
	}

	w.mu.Lock()
	token := w.beginFetch()
	w.mu.Unlock()

	return w.fetch(ctx, location, token)
}

// beginFetch takes the next fetch token and marks the widget busy. w.mu must be held.
func (w *Widget) beginFetch() uint64 {
	w.fetchSeq++
	w.inFlight++
	return w.fetchSeq
}

func (w *Widget) fetch(ctx context.Context, location Location, token uint64) error {
	var (
		snapshot Snapshot
		err      error
	)

	w.mu.Lock()
	stale := token != w.fetchSeq
	w.mu.Unlock()

	if !stale {
		snapshot, err = w.weather.Get(ctx, location.Latitude, location.Longitude)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight--

	if token != w.fetchSeq {
		w.log.Debug("dropping stale weather", "location", location.Title(), "token", token, "latest", w.fetchSeq)
		return err
	}

	if err != nil {
		w.log.Warn("weather fetch failed", "location", location.Title(), "error", err)
		w.errMsg = OpWeather.Message()
		return err
	}

	w.snapshot = &snapshot
	w.errMsg = ""
	return nil
}

// Refresh fetches the selected location again.
func (w *Widget) Refresh(ctx context.Context) error {
	if w.weather == nil {
		return fmt.Errorf("weather not configured")
	}

	w.mu.Lock()
	if w.selected == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	selected := *w.selected
	token := w.beginFetch()
	w.mu.Unlock()

	return w.fetch(ctx, selected, token)
}

// Restore selects the persisted location, if any, and fetches its weather.
// Unreadable or corrupt persisted data counts as no selection.
func (w *Widget) Restore(ctx context.Context) (bool, error) {
	if w.store == nil || w.weather == nil {
		return false, nil
	}

	location, ok, err := w.store.Load(ctx)
	if err != nil {
		w.log.Warn("ignoring persisted selection", "error", err)
		return false, nil
	}
	if !ok {
		return false, nil
	}

	w.mu.Lock()
	w.selected = &location
	token := w.beginFetch()
	w.mu.Unlock()

	w.log.Info("restored selection", "location", location.Title())
	return true, w.fetch(ctx, location, token)
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := State{
		Suggestions: append([]Location(nil), w.suggestions...),
		Busy:        w.inFlight > 0,
		Error:       w.errMsg,
	}
	if w.selected != nil {
		selected := *w.selected
		state.Selected = &selected
	}
	if w.snapshot != nil {
		snapshot := *w.snapshot
		state.Snapshot = &snapshot
	}
	return state
}

func (w *Widget) Suggestions() []Location {
	return w.State().Suggestions
}

func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight > 0
}
