package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/pkg/jwt"
)

// Locals keys que deja AuthMiddleware en el contexto Fiber.
const (
	LocalUserID     = "user_id"
	LocalBusinessID = "business_id"
	LocalRole       = "role"
	LocalTokenID    = "token_id"
	LocalTokenTTL   = "token_ttl"
)

// RevocationChecker consulta la lista de tokens revocados en logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja en c.Locals usuario, negocio, rol y jti.
// revoked puede ser nil (sin lista de revocación).
func AuthMiddleware(jwtSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				// Redis caído: se acepta el token firmado y vigente.
				log.Warn().Err(err).Msg("no se pudo consultar la revocación del token")
			} else if isRevoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "REVOKED_TOKEN", Message: "la sesión fue cerrada"})
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalBusinessID, claims.BusinessID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)
		c.Locals(LocalTokenTTL, claims.TTL(time.Now()))
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetBusinessID devuelve el negocio del token; vacío para el superadmin.
func GetBusinessID(c *fiber.Ctx) string { return localString(c, LocalBusinessID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetTokenID devuelve el jti del token.
func GetTokenID(c *fiber.Ctx) string { return localString(c, LocalTokenID) }

// GetTokenTTL tiempo de vida restante del token.
func GetTokenTTL(c *fiber.Ctx) time.Duration {
	d, _ := c.Locals(LocalTokenTTL).(time.Duration)
	return d
}

// actor arma la identidad que reciben los casos de uso.
func actor(c *fiber.Ctx) dto.Actor {
	return dto.Actor{UserID: GetUserID(c), BusinessID: GetBusinessID(c), Role: GetRole(c)}
}

// tenantActor exige un negocio en el token; el superadmin no opera datos de un tenant.
func tenantActor(c *fiber.Ctx) (dto.Actor, bool) {
	a := actor(c)
	return a, a.BusinessID != "" && a.UserID != ""
}
