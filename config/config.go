package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Geocoding Upstream `yaml:"geocoding"`
	Forecast  Upstream `yaml:"forecast"`
	HTTP      struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Store struct {
		Kind      string `yaml:"kind"`
		Path      string `yaml:"path"`
		SQLiteDSN string `yaml:"sqliteDSN"`
		RedisAddr string `yaml:"redisAddr"`
	} `yaml:"store"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

type Upstream struct {
	Endpoint  string  `yaml:"endpoint"`
	RateLimit float64 `yaml:"rateLimit"`
	Burst     int     `yaml:"burst"`
}

// Load decodes defaults, overlays the YAML file at path when given, then applies
// METEO_* environment variables (after reading .env if present).
func Load(defaults []byte, path string) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaults, &cfg); err != nil {
		return Config{}, fmt.Errorf("default config: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	cfg.Store.Path = expandHome(cfg.Store.Path)

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"METEO_GEOCODING_URL": &c.Geocoding.Endpoint,
		"METEO_FORECAST_URL":  &c.Forecast.Endpoint,
		"METEO_STORE":         &c.Store.Kind,
		"METEO_STORE_PATH":    &c.Store.Path,
		"METEO_SQLITE_DSN":    &c.Store.SQLiteDSN,
		"METEO_REDIS_ADDR":    &c.Store.RedisAddr,
		"METEO_ADDR":          &c.Server.Addr,
		"METEO_LOG_LEVEL":     &c.Log.Level,
	}
	for name, dst := range str {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("METEO_HTTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("METEO_HTTP_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = d
	}

	if v, ok := lookup("METEO_RATE_LIMIT"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("METEO_RATE_LIMIT: %w", err)
		}
		c.Geocoding.RateLimit = rps
		c.Forecast.RateLimit = rps
	}

	if v, ok := lookup("METEO_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METEO_RATE_BURST: %w", err)
		}
		c.Geocoding.Burst = burst
		c.Forecast.Burst = burst
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Geocoding.Endpoint == "" {
		errs = append(errs, errors.New("geocoding.endpoint is required"))
	}
	if c.Forecast.Endpoint == "" {
		errs = append(errs, errors.New("forecast.endpoint is required"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	for name, u := range map[string]Upstream{"geocoding": c.Geocoding, "forecast": c.Forecast} {
		if u.RateLimit < 0 || u.Burst < 0 {
			errs = append(errs, fmt.Errorf("%s: rateLimit and burst must not be negative", name))
		}
		if u.RateLimit > 0 && u.Burst == 0 {
			errs = append(errs, fmt.Errorf("%s: burst must be set with rateLimit", name))
		}
	}
	switch c.Store.Kind {
	case "file", "sqlite", "redis":
	default:
		errs = append(errs, fmt.Errorf("store.kind %q is not one of file, sqlite, redis", c.Store.Kind))
	}
	return errors.Join(errs...)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
