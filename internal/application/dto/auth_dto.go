package dto

import "time"

// SignupRequest alta de un negocio nuevo con su admin (requiere el código maestro).
type SignupRequest struct {
	MasterCode   string `json:"codigo_maestro" validate:"required"`
	BusinessName string `json:"nombre_negocio" validate:"required,max=200"`
	Name         string `json:"nombre" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Phone        string `json:"telefono" validate:"omitempty,max=50"`
}

// JoinRequest vinculación de un empleado a un negocio por código.
type JoinRequest struct {
	LinkCode string `json:"codigo_vinculacion" validate:"required,len=6"`
	Name     string `json:"nombre" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más el usuario y su negocio.
type LoginResponse struct {
	Token    string            `json:"token"`
	User     UserResponse      `json:"user"`
	Business *BusinessResponse `json:"negocio,omitempty"`
}

// SignupResponse resultado del alta de negocio.
type SignupResponse struct {
	Token    string           `json:"token"`
	User     UserResponse     `json:"user"`
	Business BusinessResponse `json:"negocio"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"negocio_id,omitempty"`
	Email      string    `json:"email"`
	Name       string    `json:"nombre"`
	Role       string    `json:"rol"`
	Active     bool      `json:"activo"`
	CreatedAt  time.Time `json:"created_at"`
}
