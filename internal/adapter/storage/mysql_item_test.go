package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockroom?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func seedItem(t *testing.T, db *sql.DB, id string, quantity int) {
	t.Helper()
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `
		INSERT INTO items (id, name, sku, category, description, quantity, unit, price, cost, supplier, reorder_level, created_by, created_at, updated_at)
		VALUES (?, ?, '', 'Test', '', ?, 'piece', 5.00, 2.00, '', 0, 'test-user', NOW(), NOW())
		ON DUPLICATE KEY UPDATE quantity = ?`,
		id, "Item "+id, quantity, quantity)
	if err != nil {
		t.Fatalf("seed item failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM items WHERE id = ?`, id)
	})
}

func TestReserve_Persisted(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLItemRepository(db)
	seedItem(t, db, "test-reserve-item", 10)

	remaining, err := repo.Reserve(ctx, "test-reserve-item", 4)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if remaining != 6 {
		t.Errorf("expected remaining 6, got %d", remaining)
	}

	var stored int
	db.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = 'test-reserve-item'`).Scan(&stored)
	if stored != 6 {
		t.Errorf("expected persisted quantity 6, got %d", stored)
	}
}

func TestReserve_InsufficientStock(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLItemRepository(db)
	seedItem(t, db, "test-short-item", 2)

	_, err := repo.Reserve(ctx, "test-short-item", 5)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.Available != 2 {
		t.Errorf("expected available 2, got %d", stockErr.Available)
	}

	var stored int
	db.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = 'test-short-item'`).Scan(&stored)
	if stored != 2 {
		t.Errorf("expected quantity unchanged at 2, got %d", stored)
	}
}

func TestReserve_ItemNotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewMySQLItemRepository(db)
	if _, err := repo.Reserve(context.Background(), "no-such-item", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestReserve_Concurrent(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLItemRepository(db)

	initialStock := 20
	totalRequests := 50
	seedItem(t, db, "test-concurrent-item", initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Reserve(ctx, "test-concurrent-item", 1); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	var stored int
	db.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = 'test-concurrent-item'`).Scan(&stored)
	if stored != 0 {
		t.Errorf("expected quantity 0, got %d", stored)
	}
}

func TestRelease_RestoresStock(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLItemRepository(db)
	seedItem(t, db, "test-release-item", 5)

	remaining, err := repo.Release(ctx, "test-release-item", 3)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if remaining != 8 {
		t.Errorf("expected remaining 8, got %d", remaining)
	}
}

func TestRelease_MissingItem(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewMySQLItemRepository(db)
	if _, err := repo.Release(context.Background(), "no-such-item", 3); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestItemCRUD(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLItemRepository(db)

	now := time.Now().Truncate(time.Second)
	item := &domain.Item{
		ID:           "test-crud-item",
		Name:         "CRUD Item",
		SKU:          "SKU-1",
		Category:     "Test",
		Quantity:     7,
		Unit:         "piece",
		Price:        decimal.RequireFromString("4.50"),
		Cost:         decimal.RequireFromString("1.20"),
		ReorderLevel: 2,
		CreatedBy:    "test-user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, item.ID)
	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM items WHERE id = ?`, item.ID)
	})

	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "CRUD Item" || got.Quantity != 7 {
		t.Errorf("unexpected item: %+v", got)
	}
	if !got.Price.Equal(item.Price) {
		t.Errorf("expected price %s, got %s", item.Price, got.Price)
	}

	got.Name = "CRUD Item v2"
	got.UpdatedAt = time.Now()
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.List(ctx, port.ItemFilter{Search: "CRUD Item v2"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(found))
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, item.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound after delete, got: %v", err)
	}
}
