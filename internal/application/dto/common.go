package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Actor identidad ya autenticada de quien ejecuta la operación (tenant + usuario + rol).
// Los casos de uso la reciben explícita; nunca la leen del request.
type Actor struct {
	UserID     string
	BusinessID string
	Role       string
}

// IsAdmin verdadero para admin del negocio o superadmin.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleSuperAdmin
}

// DebtDTO deuda de envases con los nombres de campo que consume el frontend.
type DebtDTO struct {
	Bidones20L int `json:"bidones_20L" validate:"min=0"`
	Bidones12L int `json:"bidones_12L" validate:"min=0"`
	Sodas      int `json:"sodas" validate:"min=0"`
}

// ToDebtDTO convierte la deuda de dominio.
func ToDebtDTO(d entity.ContainerDebt) DebtDTO {
	return DebtDTO{Bidones20L: d.Bidones20L, Bidones12L: d.Bidones12L, Sodas: d.Sodas}
}

// Entity convierte a la deuda de dominio.
func (d DebtDTO) Entity() entity.ContainerDebt {
	return entity.ContainerDebt{Bidones20L: d.Bidones20L, Bidones12L: d.Bidones12L, Sodas: d.Sodas}
}

// dateLayouts formatos de fecha aceptados en requests.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate interpreta una fecha del frontend ("2025-03-01" o RFC3339).
// Vacío devuelve (nil, nil).
func ParseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, domain.Invalid(field, "fecha inválida, usar AAAA-MM-DD")
}

// EndOfDay lleva una fecha sin hora al último instante del día, para rangos inclusivos.
func EndOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
