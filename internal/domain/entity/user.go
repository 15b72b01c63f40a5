package entity

import "time"

// Roles válidos para User. RoleSuperAdmin es global y no pertenece a ningún negocio.
const (
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User representa una cuenta del sistema.
type User struct {
	ID           string
	BusinessID   string // vacío para superadmin y cuentas legacy
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Active       bool // un empleado que se vincula por código nace inactivo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
