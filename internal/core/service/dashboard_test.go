package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trinv/stockroom/internal/core/domain"
)

func TestDashboardSummary(t *testing.T) {
	lowItem := item("low", 2)
	lowItem.ReorderLevel = 5
	emptyItem := item("empty", 0)
	itemRepo := newMockItemRepo(item("plenty", 50), lowItem, emptyItem)

	saleRepo := newMockSaleRepo()
	now := time.Now()
	sales := []domain.Sale{
		{
			ID:       "s-today",
			Customer: "Alice",
			Items:    []domain.SaleItem{{ItemID: "plenty", Quantity: 4, Price: decimal.NewFromInt(5)}},
			Total:    decimal.NewFromInt(20),
			Status:   domain.SaleStatusCompleted, CreatedAt: now,
		},
		{
			ID:       "s-old",
			Customer: "Bob",
			Items:    []domain.SaleItem{{ItemID: "vanished", Quantity: 1, Price: decimal.NewFromInt(3)}},
			Total:    decimal.NewFromInt(3),
			Status:   domain.SaleStatusCompleted, CreatedAt: now.AddDate(0, -2, 0),
		},
	}
	for i := range sales {
		if err := saleRepo.Create(context.Background(), &sales[i]); err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	userRepo := newMockUserRepo(
		domain.User{ID: "u1", Role: domain.RoleAdmin},
		domain.User{ID: "u2", Role: domain.RoleUser},
		domain.User{ID: "u3", Role: domain.RoleUser},
	)

	svc := NewDashboardService(itemRepo, saleRepo, userRepo, nil, time.Minute, testLogger())
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	inv := summary.Inventory
	if inv.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", inv.TotalItems)
	}
	if inv.OutOfStock != 1 {
		t.Errorf("expected 1 out-of-stock item, got %d", inv.OutOfStock)
	}
	// "low" (2 <= 5) and "empty" (0 <= 0) are both at or below reorder level.
	if inv.LowStockCount != 2 {
		t.Errorf("expected 2 low-stock items, got %d", inv.LowStockCount)
	}
	// 50*5 + 2*5 + 0 = 260 with the fixture's unit price of 5.
	if want := decimal.NewFromInt(260); !inv.TotalValue.Equal(want) {
		t.Errorf("expected total value %s, got %s", want, inv.TotalValue)
	}

	sl := summary.Sales
	if sl.TotalSales != 2 {
		t.Errorf("expected 2 sales, got %d", sl.TotalSales)
	}
	if want := decimal.NewFromInt(23); !sl.TotalRevenue.Equal(want) {
		t.Errorf("expected total revenue %s, got %s", want, sl.TotalRevenue)
	}
	if sl.TodaySales != 1 || !sl.TodayRevenue.Equal(decimal.NewFromInt(20)) {
		t.Errorf("unexpected today stats: %d sales, revenue %s", sl.TodaySales, sl.TodayRevenue)
	}
	if len(sl.RecentSales) != 2 {
		t.Errorf("expected 2 recent sales, got %d", len(sl.RecentSales))
	}

	var unknown *domain.TopProduct
	for i := range sl.TopProducts {
		if sl.TopProducts[i].ItemID == "vanished" {
			unknown = &sl.TopProducts[i]
		}
	}
	if unknown == nil {
		t.Fatal("expected deleted item to still appear in top products")
	}
	if unknown.Name != "Unknown Product" {
		t.Errorf("expected placeholder name for deleted item, got %q", unknown.Name)
	}

	us := summary.Users
	if us.TotalUsers != 3 {
		t.Errorf("expected 3 users, got %d", us.TotalUsers)
	}
	if us.Roles["user"] != 2 || us.Roles["admin"] != 1 {
		t.Errorf("unexpected role breakdown: %v", us.Roles)
	}
}

func TestDashboardSummary_ServedFromCache(t *testing.T) {
	itemRepo := newMockItemRepo(item("X", 10))
	saleRepo := newMockSaleRepo()
	userRepo := newMockUserRepo()
	cache := newMockCacheRepo()

	svc := NewDashboardService(itemRepo, saleRepo, userRepo, cache, time.Minute, testLogger())

	first, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("first summary failed: %v", err)
	}
	if first.Inventory.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", first.Inventory.TotalItems)
	}

	// A new item must not show up while the cached payload is served.
	extra := item("Y", 5)
	if err := itemRepo.Create(context.Background(), &extra); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	second, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("second summary failed: %v", err)
	}
	if second.Inventory.TotalItems != 1 {
		t.Errorf("expected cached summary with 1 item, got %d", second.Inventory.TotalItems)
	}
}
