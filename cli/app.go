package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"meteo/apis/geocoding"
	"meteo/apis/openmeteo"
	"meteo/config"
	"meteo/manager"
	"meteo/store"
)

type env struct {
	widget *manager.Widget
	addr   string
	close  func() error
}

type opener func(cmd *cobra.Command) (*env, error)

// configOpener wires the widget from the embedded defaults and the global flags.
func configOpener(defaults []byte) opener {
	return func(cmd *cobra.Command) (*env, error) {
		flags := cmd.Flags()
		path, _ := flags.GetString("config")

		cfg, err := config.Load(defaults, path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if v, _ := flags.GetString("store"); v != "" {
			cfg.Store.Kind = v
		}
		if v, _ := flags.GetString("log-level"); v != "" {
			cfg.Log.Level = v
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
		slog.SetDefault(logger)

		selection, err := store.Open(cfg.Store.Kind, store.Options{
			Path:      cfg.Store.Path,
			SQLiteDSN: cfg.Store.SQLiteDSN,
			RedisAddr: cfg.Store.RedisAddr,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
		}

		var geo manager.Geocoding = geocoding.New(cfg.Geocoding.Endpoint, cfg.HTTP.Timeout)
		if cfg.Geocoding.RateLimit > 0 {
			geo = manager.NewRateLimitedGeocoding(geo, cfg.Geocoding.RateLimit, cfg.Geocoding.Burst)
		}

		var weather manager.Weather = openmeteo.New(cfg.Forecast.Endpoint, cfg.HTTP.Timeout)
		if cfg.Forecast.RateLimit > 0 {
			weather = manager.NewRateLimitedWeather(weather, cfg.Forecast.RateLimit, cfg.Forecast.Burst)
		}

		widget := manager.New(geo, weather, selection)
		widget.SetLogger(logger)

		return &env{widget: widget, addr: cfg.Server.Addr, close: selection.Close}, nil
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
