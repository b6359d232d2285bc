package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

const (
	recentSalesLimit = 5
	topProductsLimit = 5
)

// DashboardService builds the read-only summary for the dashboard. The
// aggregation walks existing records and has no invariant of its own; the
// result is cached in Redis for a short TTL because it touches every table.
type DashboardService struct {
	items    port.ItemRepository
	sales    port.SaleRepository
	users    port.UserRepository
	cache    port.CacheRepository
	cacheTTL time.Duration
	log      *logrus.Logger
}

func NewDashboardService(items port.ItemRepository, sales port.SaleRepository, users port.UserRepository, cache port.CacheRepository, cacheTTL time.Duration, log *logrus.Logger) *DashboardService {
	return &DashboardService{
		items:    items,
		sales:    sales,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if s.cache != nil {
		if payload, err := s.cache.GetDashboardSummary(ctx); err == nil && payload != nil {
			var cached domain.DashboardSummary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cache.SetDashboardSummary(ctx, payload, s.cacheTTL); err != nil {
				s.log.WithError(err).Warn("failed to cache dashboard summary")
			}
		}
	}

	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*domain.DashboardSummary, error) {
	items, err := s.items.List(ctx, port.ItemFilter{})
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.List(ctx, port.SaleFilter{})
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		Inventory: buildInventorySummary(items),
		Sales:     buildSalesSummary(sales, items),
		Users:     buildUserSummary(users),
	}
	return summary, nil
}

func buildInventorySummary(items []domain.Item) domain.InventorySummary {
	inv := domain.InventorySummary{
		TotalItems:    len(items),
		TotalValue:    decimal.Zero,
		LowStockItems: []domain.LowStockItem{},
	}

	categories := make(map[string]struct{})
	for _, item := range items {
		inv.TotalValue = inv.TotalValue.Add(item.StockValue())
		categories[item.Category] = struct{}{}
		if item.Quantity == 0 {
			inv.OutOfStock++
		}
		if item.IsLowStock() {
			inv.LowStockCount++
			inv.LowStockItems = append(inv.LowStockItems, domain.LowStockItem{
				ID:           item.ID,
				Name:         item.Name,
				Quantity:     item.Quantity,
				ReorderLevel: item.ReorderLevel,
			})
		}
	}
	inv.Categories = len(categories)
	return inv
}

func buildSalesSummary(sales []domain.Sale, items []domain.Item) domain.SalesSummary {
	out := domain.SalesSummary{
		TotalSales:   len(sales),
		TotalRevenue: decimal.Zero,
		TodayRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
		RecentSales:  []domain.RecentSale{},
		TopProducts:  []domain.TopProduct{},
	}

	itemNames := make(map[string]string, len(items))
	for _, item := range items {
		itemNames[item.ID] = item.Name
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type productAgg struct {
		quantity int
		revenue  decimal.Decimal
	}
	products := make(map[string]*productAgg)

	for _, sale := range sales {
		out.TotalRevenue = out.TotalRevenue.Add(sale.Total)
		if !sale.CreatedAt.Before(startOfDay) {
			out.TodaySales++
			out.TodayRevenue = out.TodayRevenue.Add(sale.Total)
		}
		if !sale.CreatedAt.Before(startOfMonth) {
			out.MonthSales++
			out.MonthRevenue = out.MonthRevenue.Add(sale.Total)
		}

		for _, line := range sale.Items {
			agg, ok := products[line.ItemID]
			if !ok {
				agg = &productAgg{revenue: decimal.Zero}
				products[line.ItemID] = agg
			}
			agg.quantity += line.Quantity
			agg.revenue = agg.revenue.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}

	// Sales come back newest first from the repository.
	for i, sale := range sales {
		if i == recentSalesLimit {
			break
		}
		out.RecentSales = append(out.RecentSales, domain.RecentSale{
			ID:       sale.ID,
			Customer: sale.Customer,
			Total:    sale.Total,
			Date:     sale.CreatedAt,
			Items:    len(sale.Items),
		})
	}

	for itemID, agg := range products {
		name, ok := itemNames[itemID]
		if !ok {
			name = "Unknown Product"
		}
		out.TopProducts = append(out.TopProducts, domain.TopProduct{
			ItemID:   itemID,
			Name:     name,
			Quantity: agg.quantity,
			Revenue:  agg.revenue,
		})
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		return out.TopProducts[i].Quantity > out.TopProducts[j].Quantity
	})
	if len(out.TopProducts) > topProductsLimit {
		out.TopProducts = out.TopProducts[:topProductsLimit]
	}

	return out
}

func buildUserSummary(users []domain.User) domain.UserSummary {
	out := domain.UserSummary{
		TotalUsers: len(users),
		Roles:      make(map[string]int),
	}
	for _, u := range users {
		out.Roles[string(u.Role)]++
	}
	return out
}
