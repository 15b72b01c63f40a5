package entity

import "time"

// Business representa un negocio/tenant del sistema. Todos los clientes, ventas,
// gastos y llenados quedan aislados por BusinessID.
type Business struct {
	ID             string
	Name           string
	LinkCode       string // código para que un empleado se vincule; regenerable
	Suspended      bool   // kill-switch manual del superadmin
	Phone          string
	Email          string
	Address        string
	OnboardingDone bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
