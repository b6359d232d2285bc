package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

func saleListAll() port.SaleFilter {
	return port.SaleFilter{}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// mockItemRepo is an in-memory item store serving both the item CRUD port
// and the ledger port.
type mockItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Item
}

func newMockItemRepo(items ...domain.Item) *mockItemRepo {
	m := &mockItemRepo{items: make(map[string]*domain.Item)}
	for i := range items {
		item := items[i]
		m.items[item.ID] = &item
	}
	return m
}

func (m *mockItemRepo) quantity(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		return item.Quantity
	}
	return -1
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockItemRepo) List(ctx context.Context, filter port.ItemFilter) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Item
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockItemRepo) ListLowStock(ctx context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Item
	for _, item := range m.items {
		if item.IsLowStock() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockItemRepo) Categories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, item := range m.items {
		if _, ok := seen[item.Category]; !ok {
			seen[item.Category] = struct{}{}
			out = append(out, item.Category)
		}
	}
	return out, nil
}

func (m *mockItemRepo) Reserve(ctx context.Context, itemID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return 0, domain.ErrItemNotFound
	}
	if amount > item.Quantity {
		return 0, &domain.InsufficientStockError{ItemID: itemID, Requested: amount, Available: item.Quantity}
	}
	item.Quantity -= amount
	return item.Quantity, nil
}

func (m *mockItemRepo) Release(ctx context.Context, itemID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return 0, domain.ErrItemNotFound
	}
	item.Quantity += amount
	return item.Quantity, nil
}

// mockSaleRepo stores sales in memory; failCreate makes the next Create
// fail to exercise the mismatch path.
type mockSaleRepo struct {
	mu         sync.Mutex
	sales      map[string]*domain.Sale
	failCreate error
}

func newMockSaleRepo() *mockSaleRepo {
	return &mockSaleRepo{sales: make(map[string]*domain.Sale)}
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	cp := *sale
	m.sales[sale.ID] = &cp
	return nil
}

func (m *mockSaleRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sale, ok := m.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sale
	return &cp, nil
}

func (m *mockSaleRepo) List(ctx context.Context, filter port.SaleFilter) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sale
	for _, sale := range m.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (m *mockSaleRepo) Update(ctx context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *sale
	m.sales[sale.ID] = &cp
	return nil
}

func (m *mockSaleRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *mockSaleRepo) PeriodStats(ctx context.Context, period port.StatsPeriod, limit int) ([]domain.PeriodStat, error) {
	return nil, nil
}

type mockCacheRepo struct {
	mu      sync.Mutex
	keys    map[string]bool
	summary []byte
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{keys: make(map[string]bool)}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *mockCacheRepo) GetDashboardSummary(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary, nil
}

func (m *mockCacheRepo) SetDashboardSummary(ctx context.Context, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = payload
	return nil
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification

	// blockCreate, when set, makes Create wait until the channel is closed.
	blockCreate chan struct{}
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.blockCreate != nil {
		<-m.blockCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockNotificationRepo) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		m.notifications[i].Read = true
	}
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockNotificationRepo) byType(t domain.NotificationType) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
