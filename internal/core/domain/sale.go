package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "Pending"
	SaleStatusCompleted SaleStatus = "Completed"
	SaleStatusCancelled SaleStatus = "Cancelled"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status transition is allowed.
// Pending is the only non-terminal state; Completed and Cancelled are final.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	if s == next {
		return true
	}
	return s == SaleStatusPending &&
		(next == SaleStatusCompleted || next == SaleStatusCancelled)
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentDebitCard    PaymentMethod = "Debit Card"
	PaymentPayPal       PaymentMethod = "PayPal"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentBankTransfer:
		return true
	}
	return false
}

// SaleItem is one line of a sale. The price is the unit price captured at
// sale time, not a live reference to the item's current price.
type SaleItem struct {
	ItemID   string          `json:"itemId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Sale struct {
	ID            string          `json:"id"`
	Customer      string          `json:"customer"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        SaleStatus      `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	UserID        string          `json:"userId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ComputeTotal sums quantity times unit price over all lines. The sale total
// is always derived through this function before persistence; it is never
// accepted from a caller.
func ComputeTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
