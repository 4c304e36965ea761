package cierre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// Locker da exclusión rápida entre réplicas antes de esperar el bloqueo de fila.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

type noopLocker struct{}

func (noopLocker) Obtain(context.Context, string) (func(), error) {
	return func() {}, nil
}

// NoopLocker se usa cuando no hay Redis configurado.
func NoopLocker() Locker { return noopLocker{} }

type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redislock.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrClosingInProgress
	}
	if err != nil {
		return nil, persistence("obtener candado", err)
	}
	return func() {
		// el contexto de la solicitud puede estar cancelado
		_ = lock.Release(context.Background())
	}, nil
}

func lockKey(zoneID uint, year, month int) string {
	return fmt.Sprintf("cierre:%d:%04d-%02d", zoneID, year, month)
}
