package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"meteo/manager"
)

const redisKey = "meteo:" + Key

type Redis struct {
	rdb *redis.Client
}

func NewRedis(addr string) *Redis {
	return NewRedisFromClient(redis.NewClient(&redis.Options{Addr: addr}))
}

func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Load(ctx context.Context) (manager.Location, bool, error) {
	data, err := r.rdb.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return manager.Location{}, false, nil
	}
	if err != nil {
		return manager.Location{}, false, err
	}

	location, err := decode(data)
	if err != nil {
		return manager.Location{}, false, err
	}
	return location, true, nil
}

func (r *Redis) Save(ctx context.Context, location manager.Location) error {
	data, err := encode(location)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey, data, 0).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
