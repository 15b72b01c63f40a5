package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	redisrate "github.com/go-redis/redis_rate/v10"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Decision resultado de un intento contra el limitador.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter limita intentos por clave. Con Redis usa redis_rate (GCRA compartido entre réplicas);
// si Redis falla o no está configurado cae a un limitador local por proceso.
type Limiter struct {
	remote   *redisrate.Limiter
	limit    redisrate.Limit
	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// NewLimiter construye un limitador de perMinute intentos por minuto. client puede ser nil.
func NewLimiter(client *goredis.Client, perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	l := &Limiter{
		limit:    redisrate.PerMinute(perMinute),
		fallback: map[string]*rate.Limiter{},
	}
	if client != nil {
		l.remote = redisrate.NewLimiter(client)
	}
	return l
}

// Allow consume un intento para key.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.remote != nil {
		res, err := l.remote.Allow(ctx, key, l.limit)
		if err == nil {
			return Decision{Allowed: res.Allowed > 0, Remaining: res.Remaining, RetryAfter: res.RetryAfter}, nil
		}
		d := l.local(key)
		return d, fmt.Errorf("redis rate limit: %w", err)
	}
	return l.local(key), nil
}

// Limit intentos permitidos por período.
func (l *Limiter) Limit() int { return l.limit.Rate }

func (l *Limiter) local(key string) Decision {
	l.mu.Lock()
	lim, ok := l.fallback[key]
	if !ok {
		perSec := float64(l.limit.Rate) / l.limit.Period.Seconds()
		lim = rate.NewLimiter(rate.Limit(perSec), l.limit.Burst)
		l.fallback[key] = lim
	}
	l.mu.Unlock()

	if lim.Allow() {
		return Decision{Allowed: true, Remaining: int(lim.Tokens())}
	}
	perSec := float64(l.limit.Rate) / l.limit.Period.Seconds()
	return Decision{Allowed: false, RetryAfter: time.Duration(float64(time.Second) / perSec)}
}
