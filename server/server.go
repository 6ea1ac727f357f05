package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meteo/forecast"
	"meteo/manager"
)

var requestCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "meteo_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	},
	[]string{"route", "method", "status"},
)

func init() {
	prometheus.MustRegister(requestCounter)
}

type Server struct {
	widget *manager.Widget
}

func New(widget *manager.Widget) *Server {
	return &Server{widget: widget}
}

type stateResponse struct {
	Selected    *manager.Location  `json:"selected,omitempty"`
	Suggestions []manager.Location `json:"suggestions"`
	Busy        bool               `json:"busy"`
	Error       string             `json:"error,omitempty"`
	Warning     string             `json:"warning,omitempty"`
	View        *forecast.View     `json:"view,omitempty"`
}

type searchResponse struct {
	Suggestions []manager.Location `json:"suggestions"`
	Error       string             `json:"error,omitempty"`
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(countRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Post("/select", s.handleSelect)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/weather", s.handleWeather)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.widget.Search(r.Context(), r.URL.Query().Get("q"))
	if suggestions == nil {
		suggestions = []manager.Location{}
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, searchResponse{Suggestions: []manager.Location{}, Error: manager.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Suggestions: suggestions})
}

// handleSelect accepts a full location, or {"id": N} to pick one of the current suggestions.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var location manager.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid location body"})
		return
	}

	var err error
	switch {
	case location.Name != "":
		err = s.widget.Select(r.Context(), location)
	case location.ID != 0:
		err = s.widget.SelectID(r.Context(), location.ID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location name or id is required"})
		return
	}

	if errors.Is(err, manager.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "suggestion " + strconv.FormatInt(location.ID, 10) + " not found"})
		return
	}
	s.writeState(w, err)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.widget.Refresh(r.Context())
	if errors.Is(err, manager.ErrNoSelection) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	s.writeState(w, err)
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	s.writeState(w, nil)
}

func (s *Server) writeState(w http.ResponseWriter, err error) {
	state := s.widget.State()

	resp := stateResponse{
		Selected:    state.Selected,
		Suggestions: state.Suggestions,
		Busy:        state.Busy,
		Error:       state.Error,
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []manager.Location{}
	}
	if state.Snapshot != nil {
		view := forecast.NewView(state.Selected, *state.Snapshot)
		resp.View = &view
	}

	// A selection that could not be persisted is still shown; the client is told it won't survive a restart.
	if errors.Is(err, manager.ErrNotSaved) {
		slog.Warn("selection not persisted", "error", err)
		resp.Warning = "Selection could not be saved"
	}

	var fe *manager.FetchError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		requestCounter.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}
