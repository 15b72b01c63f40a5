package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/dto"
)

// AuthHandler maneja alta de negocio, vinculación de empleados, login y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Signup godoc
// @Summary      Alta de negocio con su administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "código maestro, negocio y admin"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Signup(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Join godoc
// @Summary      Vincular empleado con el código del negocio
// @Description  El usuario queda inactivo hasta que un admin lo habilite.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JoinRequest  true  "código de vinculación y datos del empleado"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/join [post]
func (h *AuthHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	user, err := h.uc.Join(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout revoca el token actual hasta su vencimiento.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetTokenID(c), GetTokenTTL(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a := actor(c)
	if a.UserID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Me(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
