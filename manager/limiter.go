package manager

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type rateLimitedGeocoding struct {
	geocoding Geocoding
	limiter   *rate.Limiter
}

// NewRateLimitedGeocoding allows rps lookups per second with bursts of burst.
func NewRateLimitedGeocoding(geocoding Geocoding, rps float64, burst int) Geocoding {
	return &rateLimitedGeocoding{
		geocoding: geocoding,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimitedGeocoding) Search(ctx context.Context, query string) ([]Location, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, NetworkError(OpSuggestions, fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.geocoding.Search(ctx, query)
}

type rateLimitedWeather struct {
	weather Weather
	limiter *rate.Limiter
}

// NewRateLimitedWeather allows rps forecast calls per second with bursts of burst.
func NewRateLimitedWeather(weather Weather, rps float64, burst int) Weather {
	return &rateLimitedWeather{
		weather: weather,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimitedWeather) Get(ctx context.Context, latitude, longitude float64) (Snapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Snapshot{}, NetworkError(OpWeather, fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.weather.Get(ctx, latitude, longitude)
}
