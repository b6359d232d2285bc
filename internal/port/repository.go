package port

import (
	"context"
	"time"

	"github.com/trinv/stockroom/internal/core/domain"
)

// LedgerRepository is the persistence contract for stock mutations. Both
// operations must be atomic per item: two concurrent calls against the same
// item may not lose an update, and Reserve may never drive quantity below
// zero.
type LedgerRepository interface {
	// Reserve atomically decrements the item's quantity and returns the new
	// quantity. Fails with domain.ErrItemNotFound if the item does not exist
	// and with *domain.InsufficientStockError if amount exceeds the quantity.
	Reserve(ctx context.Context, itemID string, amount int) (int, error)

	// Release atomically increments the item's quantity and returns the new
	// quantity. Fails with domain.ErrItemNotFound if the item no longer
	// exists; it never recreates a deleted item.
	Release(ctx context.Context, itemID string, amount int) (int, error)
}

type ItemFilter struct {
	Search   string
	Category string
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
	ListLowStock(ctx context.Context) ([]domain.Item, error)
	Categories(ctx context.Context) ([]string, error)
}

type SaleFilter struct {
	From *time.Time
	To   *time.Time
}

type StatsPeriod string

const (
	StatsDaily   StatsPeriod = "daily"
	StatsMonthly StatsPeriod = "monthly"
	StatsYearly  StatsPeriod = "yearly"
)

type SaleRepository interface {
	// Create persists the sale and its lines as one unit.
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]domain.Sale, error)
	Update(ctx context.Context, sale *domain.Sale) error
	Delete(ctx context.Context, id string) error

	// PeriodStats groups completed sales by calendar period, newest first.
	PeriodStats(ctx context.Context, period StatsPeriod, limit int) ([]domain.PeriodStat, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
