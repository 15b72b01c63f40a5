package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// CategoryStatus estado de una categoría de activos: propios, en la calle, en depósito y su valor.
type CategoryStatus struct {
	Total           int
	InField         int
	InDepot         int
	ReplacementCost decimal.Decimal
	Valuation       decimal.Decimal
}

// Valuate cruza el inventario guardado con los dispensers asignados a clientes.
// Los envases no se siguen por cliente (en la calle = 0); los dispensers sí.
// En depósito nunca es negativo aunque haya más asignados que propios.
func Valuate(assets []*entity.InventoryAsset, dispensersAssigned int) map[string]CategoryStatus {
	out := make(map[string]CategoryStatus, len(entity.AssetCategories))
	for _, c := range entity.AssetCategories {
		out[c] = status(c, 0, decimal.Zero, dispensersAssigned)
	}
	for _, a := range assets {
		if a == nil || !entity.IsAssetCategory(a.Category) {
			continue
		}
		out[a.Category] = status(a.Category, a.Total, a.ReplacementCost, dispensersAssigned)
	}
	return out
}

func status(category string, total int, cost decimal.Decimal, dispensersAssigned int) CategoryStatus {
	inField := 0
	if category == entity.AssetDispensers {
		inField = dispensersAssigned
	}
	return CategoryStatus{
		Total:           total,
		InField:         inField,
		InDepot:         max(0, total-inField),
		ReplacementCost: cost,
		Valuation:       cost.Mul(decimal.NewFromInt(int64(total))),
	}
}

// TotalValuation suma la valorización de todas las categorías.
func TotalValuation(statuses map[string]CategoryStatus) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range statuses {
		sum = sum.Add(s.Valuation)
	}
	return sum
}

// Patch actualización parcial de una categoría; nil conserva el valor anterior.
type Patch struct {
	Total           *int
	ReplacementCost *decimal.Decimal
}

// ApplyPatch aplica p sobre a. Valores negativos se rechazan con ok=false.
func ApplyPatch(a entity.InventoryAsset, p Patch) (entity.InventoryAsset, bool) {
	if p.Total != nil {
		if *p.Total < 0 {
			return a, false
		}
		a.Total = *p.Total
	}
	if p.ReplacementCost != nil {
		if p.ReplacementCost.IsNegative() {
			return a, false
		}
		a.ReplacementCost = *p.ReplacementCost
	}
	return a, true
}
