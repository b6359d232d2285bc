package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

const (
	salesSheet     = "Sales"
	inventorySheet = "Inventory"
)

// ReportService renders the sales export as a spreadsheet: a summary block,
// one row per sale, and an inventory sheet.
type ReportService struct {
	sales port.SaleRepository
	items port.ItemRepository
	log   *logrus.Logger
}

func NewReportService(sales port.SaleRepository, items port.ItemRepository, log *logrus.Logger) *ReportService {
	return &ReportService{sales: sales, items: items, log: log}
}

// SalesReport builds the workbook for the optional date range. The caller
// owns the returned file and is responsible for closing it.
func (s *ReportService) SalesReport(ctx context.Context, from, to *time.Time) (*excelize.File, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidArgument)
	}

	sales, err := s.sales.List(ctx, port.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx, port.ItemFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", salesSheet)

	totalRevenue := decimal.Zero
	totalItemsSold := 0
	for _, sale := range sales {
		totalRevenue = totalRevenue.Add(sale.Total)
		for _, line := range sale.Items {
			totalItemsSold += line.Quantity
		}
	}

	f.SetCellValue(salesSheet, "A1", "Sales Report")
	f.SetCellValue(salesSheet, "A2", fmt.Sprintf("Generated on %s", time.Now().Format("2006-01-02 15:04")))
	if from != nil && to != nil {
		f.SetCellValue(salesSheet, "A3", fmt.Sprintf("Period: %s to %s",
			from.Format("2006-01-02"), to.Format("2006-01-02")))
	}

	f.SetCellValue(salesSheet, "A5", "Total Revenue")
	f.SetCellValue(salesSheet, "B5", totalRevenue.InexactFloat64())
	f.SetCellValue(salesSheet, "A6", "Total Transactions")
	f.SetCellValue(salesSheet, "B6", len(sales))
	f.SetCellValue(salesSheet, "A7", "Total Items Sold")
	f.SetCellValue(salesSheet, "B7", totalItemsSold)

	headerRow := 9
	headers := []string{"Date", "Customer", "Payment Method", "Status", "Lines", "Total"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		f.SetCellValue(salesSheet, cell, h)
	}

	for i, sale := range sales {
		row := headerRow + 1 + i
		f.SetCellValue(salesSheet, fmt.Sprintf("A%d", row), sale.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(salesSheet, fmt.Sprintf("B%d", row), sale.Customer)
		f.SetCellValue(salesSheet, fmt.Sprintf("C%d", row), string(sale.PaymentMethod))
		f.SetCellValue(salesSheet, fmt.Sprintf("D%d", row), string(sale.Status))
		f.SetCellValue(salesSheet, fmt.Sprintf("E%d", row), len(sale.Items))
		f.SetCellValue(salesSheet, fmt.Sprintf("F%d", row), sale.Total.InexactFloat64())
	}

	if _, err := f.NewSheet(inventorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create inventory sheet: %w", err)
	}

	invHeaders := []string{"Name", "SKU", "Category", "Quantity", "Unit Price", "Stock Value", "Reorder Level"}
	for col, h := range invHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(inventorySheet, cell, h)
	}
	for i, item := range items {
		row := i + 2
		f.SetCellValue(inventorySheet, fmt.Sprintf("A%d", row), item.Name)
		f.SetCellValue(inventorySheet, fmt.Sprintf("B%d", row), item.SKU)
		f.SetCellValue(inventorySheet, fmt.Sprintf("C%d", row), item.Category)
		f.SetCellValue(inventorySheet, fmt.Sprintf("D%d", row), item.Quantity)
		f.SetCellValue(inventorySheet, fmt.Sprintf("E%d", row), item.Price.InexactFloat64())
		f.SetCellValue(inventorySheet, fmt.Sprintf("F%d", row), item.StockValue().InexactFloat64())
		f.SetCellValue(inventorySheet, fmt.Sprintf("G%d", row), item.ReorderLevel)
	}

	return f, nil
}
