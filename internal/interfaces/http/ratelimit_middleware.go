package http

import (
	"context"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/infrastructure/redis"
)

// AttemptLimiter lo implementa *redis.Limiter.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
	Limit() int
}

// RateLimit limita intentos por IP y ruta (login, join, signup).
// Si Redis falla el limitador local decide; nunca se bloquea por la caída de Redis.
func RateLimit(limiter AttemptLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ratelimit:" + c.Route().Path + ":" + c.IP()
		d, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limit con fallback local")
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos, espere un momento",
			})
		}
		return c.Next()
	}
}
