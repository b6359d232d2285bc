package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Supplier     string          `json:"supplier,omitempty"`
	ReorderLevel int             `json:"reorderLevel"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the item is at or below its reorder level.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// StockValue is quantity times unit price.
func (i *Item) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
