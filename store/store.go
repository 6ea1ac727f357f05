// Package store persists the selected location in a single key/value slot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meteo/manager"
)

// Key is the slot every backend stores the selection under.
const Key = "selectedLocation"

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

var ErrCorrupt = errors.New("corrupt selection")

type Store interface {
	Load(ctx context.Context) (manager.Location, bool, error)
	Save(ctx context.Context, location manager.Location) error
	Close() error
}

type Options struct {
	Path      string
	SQLiteDSN string
	RedisAddr string
}

func Open(kind string, opts Options) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFile(opts.Path), nil
	case KindSQLite:
		return NewSQLite(opts.SQLiteDSN)
	case KindRedis:
		return NewRedis(opts.RedisAddr), nil
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

func encode(location manager.Location) ([]byte, error) {
	return json.Marshal(location)
}

func decode(data []byte) (manager.Location, error) {
	var location manager.Location
	if err := json.Unmarshal(data, &location); err != nil {
		return manager.Location{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return location, nil
}
