package config

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisClients: cliente de Redis y el cliente de candados construido sobre él.
type RedisClients struct {
	DB     *redis.Client
	Locker *redislock.Client
}

func (r *RedisClients) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// ConnectRedis abre la conexión y verifica con PING. Devuelve (nil, nil) si no
// hay REDIS_ADDRESS configurado.
func ConnectRedis(ctx context.Context, cfg *Config) (*RedisClients, error) {
	if cfg.RedisAddress == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
		PoolSize: 20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddress, err)
	}

	Logger().WithField("addr", cfg.RedisAddress).Info("conectado a redis")
	return &RedisClients{DB: rdb, Locker: redislock.New(rdb)}, nil
}
