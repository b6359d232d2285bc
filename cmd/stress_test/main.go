package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/trinv/stockroom/internal/adapter/storage"
)

const (
	itemID        = "stress-test-item"
	initialStock  = 20
	totalRequests = 50
)

// Hammers the ledger with concurrent reservations against one item and
// checks that exactly initialStock of them win and the quantity lands on
// zero. Run against a disposable database.
func main() {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockroom?parseTime=true"
	}

	ctx := context.Background()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	// Reset the test item.
	db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, itemID)
	_, err = db.ExecContext(ctx, `
		INSERT INTO items (id, name, sku, category, description, quantity, unit, price, cost, supplier, reorder_level, created_by, created_at, updated_at)
		VALUES (?, 'Stress Test Item', '', 'Other', '', ?, 'piece', ?, 0, '', 0, 'stress-test', NOW(), NOW())`,
		itemID, initialStock, decimal.NewFromInt(10))
	if err != nil {
		log.Fatalf("failed to seed item: %v", err)
	}

	repo := storage.NewMySQLItemRepository(db)

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := repo.Reserve(ctx, itemID, 1); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && fail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d reservations succeeded, %d failed\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	var finalStock int
	db.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, itemID).Scan(&finalStock)
	fmt.Printf("Final Stock: %d\n", finalStock)

	if finalStock == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", finalStock)
	}
}
