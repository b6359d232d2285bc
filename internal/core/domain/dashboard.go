package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStat is one bucket of the completed-sales aggregation. Month and Day
// are zero for the coarser groupings.
type PeriodStat struct {
	Year  int             `json:"year"`
	Month int             `json:"month,omitempty"`
	Day   int             `json:"day,omitempty"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type LowStockItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
}

type RecentSale struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Total    decimal.Decimal `json:"total"`
	Date     time.Time       `json:"date"`
	Items    int             `json:"items"`
}

type TopProduct struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type InventorySummary struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockCount int             `json:"lowStockCount"`
	OutOfStock    int             `json:"outOfStockCount"`
	Categories    int             `json:"categories"`
	LowStockItems []LowStockItem  `json:"lowStockItems"`
}

type SalesSummary struct {
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TodaySales   int             `json:"todaySales"`
	TodayRevenue decimal.Decimal `json:"todayRevenue"`
	MonthSales   int             `json:"monthSales"`
	MonthRevenue decimal.Decimal `json:"monthRevenue"`
	RecentSales  []RecentSale    `json:"recentSales"`
	TopProducts  []TopProduct    `json:"topProducts"`
}

type UserSummary struct {
	TotalUsers int            `json:"totalUsers"`
	Roles      map[string]int `json:"roles"`
}

type DashboardSummary struct {
	Inventory InventorySummary `json:"inventory"`
	Sales     SalesSummary     `json:"sales"`
	Users     UserSummary      `json:"users"`
}
