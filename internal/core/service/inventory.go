package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

// InventoryService covers administrative item management. Sale-driven stock
// mutations never pass through here; those belong to the ledger.
type InventoryService struct {
	items port.ItemRepository
	log   *logrus.Logger
}

func NewInventoryService(items port.ItemRepository, log *logrus.Logger) *InventoryService {
	return &InventoryService{items: items, log: log}
}

func (s *InventoryService) Create(ctx context.Context, item domain.Item, createdBy string) (*domain.Item, error) {
	if err := validateItem(&item); err != nil {
		return nil, err
	}

	now := time.Now()
	item.ID = uuid.NewString()
	item.CreatedBy = createdBy
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Unit == "" {
		item.Unit = "piece"
	}

	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, filter port.ItemFilter) ([]domain.Item, error) {
	return s.items.List(ctx, filter)
}

// Update applies an administrative edit. Setting Quantity here overwrites
// the ledger state directly (a stock correction), which is why negative
// values are rejected the same way the ledger rejects them.
func (s *InventoryService) Update(ctx context.Context, id string, item domain.Item) (*domain.Item, error) {
	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.ID = existing.ID
	item.CreatedBy = existing.CreatedBy
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	if item.Unit == "" {
		item.Unit = existing.Unit
	}
	if err := validateItem(&item); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.items.GetByID(ctx, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}

// ListLowStock returns items at or below their reorder level.
func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.Item, error) {
	return s.items.ListLowStock(ctx)
}

func (s *InventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.items.Categories(ctx)
}

func (s *InventoryService) Search(ctx context.Context, query string) ([]domain.Item, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query required", domain.ErrInvalidArgument)
	}
	return s.items.List(ctx, port.ItemFilter{Search: query})
}

func validateItem(item *domain.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: item name required", domain.ErrInvalidArgument)
	}
	if item.Category == "" {
		return fmt.Errorf("%w: item category required", domain.ErrInvalidArgument)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidArgument)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidArgument)
	}
	if item.Cost.IsNegative() {
		return fmt.Errorf("%w: cost cannot be negative", domain.ErrInvalidArgument)
	}
	if item.ReorderLevel < 0 {
		return fmt.Errorf("%w: reorder level cannot be negative", domain.ErrInvalidArgument)
	}
	return nil
}
