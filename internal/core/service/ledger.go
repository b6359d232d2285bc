package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

// LedgerService owns the stock-quantity invariant: an item's quantity never
// goes negative, and reserve/release on the same item never lose an update.
// The atomicity itself lives in the LedgerRepository (a conditional
// single-statement update per item); this service adds argument validation
// and threshold alerting on top.
type LedgerService struct {
	ledger   port.LedgerRepository
	items    port.ItemRepository
	notifier *Notifier
	log      *logrus.Logger
}

func NewLedgerService(ledger port.LedgerRepository, items port.ItemRepository, notifier *Notifier, log *logrus.Logger) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		items:    items,
		notifier: notifier,
		log:      log,
	}
}

// Reserve decrements the item's quantity by amount and returns the new
// quantity. Fails with domain.ErrItemNotFound, *domain.InsufficientStockError
// or domain.ErrInvalidArgument; on success the item has been persisted with
// the reduced quantity.
func (s *LedgerService) Reserve(ctx context.Context, itemID string, amount int) (int, error) {
	if itemID == "" {
		return 0, fmt.Errorf("%w: item id required", domain.ErrInvalidArgument)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: reserve amount must be positive, got %d", domain.ErrInvalidArgument, amount)
	}

	remaining, err := s.ledger.Reserve(ctx, itemID, amount)
	if err != nil {
		return 0, err
	}

	s.checkThreshold(ctx, itemID, remaining)
	return remaining, nil
}

// Release increments the item's quantity by amount and returns the new
// quantity. A missing item is tolerated: releasing against a deleted item
// must not resurrect it, so the call logs a warning and reports ok=false
// through the returned quantity of -1.
func (s *LedgerService) Release(ctx context.Context, itemID string, amount int) (int, error) {
	if itemID == "" {
		return 0, fmt.Errorf("%w: item id required", domain.ErrInvalidArgument)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: release amount must be positive, got %d", domain.ErrInvalidArgument, amount)
	}

	remaining, err := s.ledger.Release(ctx, itemID, amount)
	if errors.Is(err, domain.ErrItemNotFound) {
		s.log.WithFields(logrus.Fields{
			"itemId": itemID,
			"amount": amount,
		}).Warn("release against missing item, skipping")
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// checkThreshold emits a stock alert when a reservation dropped the item to
// zero or below its reorder level. Alerting is best-effort and must not fail
// the reservation.
func (s *LedgerService) checkThreshold(ctx context.Context, itemID string, remaining int) {
	if s.notifier == nil {
		return
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		s.log.WithField("itemId", itemID).WithError(err).Warn("could not load item for stock alert")
		return
	}

	switch {
	case remaining == 0:
		s.notifier.Publish(domain.Notification{
			Type:    domain.NotificationOutOfStock,
			Message: fmt.Sprintf("%s is out of stock", item.Name),
			ItemID:  itemID,
		})
	case remaining <= item.ReorderLevel:
		s.notifier.Publish(domain.Notification{
			Type:    domain.NotificationLowStock,
			Message: fmt.Sprintf("%s is low on stock: %d left (reorder at %d)", item.Name, remaining, item.ReorderLevel),
			ItemID:  itemID,
		})
	}
}
