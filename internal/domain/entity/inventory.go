package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de activos del inventario (nombres de campo del contrato con el frontend).
const (
	AssetBidones20L = "bidones_20L"
	AssetBidones12L = "bidones_12L"
	AssetSodas      = "sodas"
	AssetDispensers = "dispensers"
)

// AssetCategories en el orden en que se presentan.
var AssetCategories = []string{AssetBidones20L, AssetBidones12L, AssetSodas, AssetDispensers}

// IsAssetCategory informa si la categoría es una de AssetCategories.
func IsAssetCategory(category string) bool {
	for _, c := range AssetCategories {
		if c == category {
			return true
		}
	}
	return false
}

// InventoryAsset total de unidades propias de una categoría y su costo de reposición.
type InventoryAsset struct {
	BusinessID      string
	Category        string
	Total           int
	ReplacementCost decimal.Decimal
	UpdatedAt       time.Time
}
