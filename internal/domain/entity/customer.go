package entity

import "time"

// ContainerDebt envases que el cliente tiene en su poder sin devolver.
// Se lleva aparte del dinero adeudado.
type ContainerDebt struct {
	Bidones20L int
	Bidones12L int
	Sodas      int
}

// Add suma componente a componente.
func (d ContainerDebt) Add(o ContainerDebt) ContainerDebt {
	return ContainerDebt{
		Bidones20L: d.Bidones20L + o.Bidones20L,
		Bidones12L: d.Bidones12L + o.Bidones12L,
		Sodas:      d.Sodas + o.Sodas,
	}
}

// Neg invierte el signo de cada componente.
func (d ContainerDebt) Neg() ContainerDebt {
	return ContainerDebt{Bidones20L: -d.Bidones20L, Bidones12L: -d.Bidones12L, Sodas: -d.Sodas}
}

// IsZero es verdadero si no hay envases en ninguna categoría.
func (d ContainerDebt) IsZero() bool {
	return d.Bidones20L == 0 && d.Bidones12L == 0 && d.Sodas == 0
}

// ClampZero lleva a cero cualquier componente negativo.
func (d ContainerDebt) ClampZero() ContainerDebt {
	return ContainerDebt{
		Bidones20L: max(0, d.Bidones20L),
		Bidones12L: max(0, d.Bidones12L),
		Sodas:      max(0, d.Sodas),
	}
}

// Customer cliente de reparto de un negocio. Active=false es la baja lógica.
type Customer struct {
	ID                 string
	BusinessID         string
	Name               string
	Address            string
	Locality           string
	Phone              string
	PhoneNormalized    string // E.164 cuando se pudo parsear; clave del guard de duplicados
	Debt               ContainerDebt
	DispensersAssigned int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
