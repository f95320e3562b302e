package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a stocked item in the catalog.
type Product struct {
	ID           int             `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	ItemsPerCase int             `db:"items_per_case" json:"items_per_case"`
	CostPerCase  decimal.Decimal `db:"cost_per_case" json:"cost_per_case"`
	ReorderPoint int             `db:"reorder_point" json:"reorder_point"`
	MaxStock     int             `db:"max_stock" json:"max_stock"`
	CategoryID   *int            `db:"category_id" json:"category_id,omitempty"`
	SupplierID   *int            `db:"supplier_id" json:"supplier_id,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// UnitCost is the cost of a single item, derived from the case cost.
func (p Product) UnitCost() decimal.Decimal {
	if p.ItemsPerCase <= 0 {
		return p.CostPerCase
	}
	return p.CostPerCase.Div(decimal.NewFromInt(int64(p.ItemsPerCase)))
}
