package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrItemNotFound       = errors.New("inventory item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InsufficientStockError reports how much stock was actually available so
// callers can surface it alongside the rejection.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Reservation is a stock decrement applied on behalf of a single sale line.
type Reservation struct {
	ItemID   string
	Quantity int
}

// ReservationMismatchError means reservations were applied to the ledger but
// the matching sale record could not be persisted. The ledger and the sale
// records have diverged; the reservations carried here are what an operator
// (or a reconciliation job) needs to put back.
type ReservationMismatchError struct {
	Reservations []Reservation
	Err          error
}

func (e *ReservationMismatchError) Error() string {
	return fmt.Sprintf("reservations applied without a matching sale record (%d lines): %v",
		len(e.Reservations), e.Err)
}

func (e *ReservationMismatchError) Unwrap() error {
	return e.Err
}
