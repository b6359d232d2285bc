package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

// MySQLItemRepository implements both the item CRUD port and the ledger
// port. Stock mutations are single conditional UPDATE statements so the
// read-modify-write on one item is atomic at the database; no two
// concurrent reservations can both observe the same starting quantity.
type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

var _ port.ItemRepository = (*MySQLItemRepository)(nil)
var _ port.LedgerRepository = (*MySQLItemRepository)(nil)

const itemColumns = `id, name, sku, category, description, quantity, unit, price, cost, supplier, reorder_level, created_by, created_at, updated_at`

func (r *MySQLItemRepository) Create(ctx context.Context, item *domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.SKU, item.Category, item.Description,
		item.Quantity, item.Unit, item.Price, item.Cost, item.Supplier,
		item.ReorderLevel, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert item", err)
	}
	return nil
}

func (r *MySQLItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, storageErr("query item", err)
	}
	return item, nil
}

func (r *MySQLItemRepository) List(ctx context.Context, filter port.ItemFilter) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var conds []string
	var args []any

	if filter.Search != "" {
		conds = append(conds, `(name LIKE ? OR sku LIKE ? OR category LIKE ? OR description LIKE ?)`)
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like, like)
	}
	if filter.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, filter.Category)
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query items", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *MySQLItemRepository) Update(ctx context.Context, item *domain.Item) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = ?, sku = ?, category = ?, description = ?, quantity = ?,
		    unit = ?, price = ?, cost = ?, supplier = ?, reorder_level = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.SKU, item.Category, item.Description, item.Quantity,
		item.Unit, item.Price, item.Cost, item.Supplier, item.ReorderLevel,
		item.UpdatedAt, item.ID,
	)
	if err != nil {
		return storageErr("update item", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// RowsAffected is 0 both for a missing row and a no-change update;
		// confirm existence before reporting not found.
		if _, err := r.GetByID(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete item", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *MySQLItemRepository) ListLowStock(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE quantity <= reorder_level
		ORDER BY quantity`)
	if err != nil {
		return nil, storageErr("query low stock items", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *MySQLItemRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM items ORDER BY category`)
	if err != nil {
		return nil, storageErr("query categories", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}
	return categories, nil
}

// Reserve decrements quantity only when enough stock is on hand. The guard
// in the WHERE clause is what keeps quantity from ever going negative under
// concurrent reservations.
func (r *MySQLItemRepository) Reserve(ctx context.Context, itemID string, amount int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin tx", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE id = ? AND quantity >= ?`,
		amount, itemID, amount,
	)
	if err != nil {
		return 0, storageErr("reserve stock", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the item is gone or the stock ran short; look to tell which.
		var available int
		err := tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, itemID).Scan(&available)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrItemNotFound
		}
		if err != nil {
			return 0, storageErr("query stock", err)
		}
		return 0, &domain.InsufficientStockError{ItemID: itemID, Requested: amount, Available: available}
	}

	// The UPDATE holds the row lock, so this read is exactly the quantity
	// this reservation produced.
	var remaining int
	if err := tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, itemID).Scan(&remaining); err != nil {
		return 0, storageErr("query stock", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit reserve", err)
	}
	return remaining, nil
}

// Release puts stock back. A missing item reports domain.ErrItemNotFound so
// the caller can decide to tolerate it; it never inserts a row.
func (r *MySQLItemRepository) Release(ctx context.Context, itemID string, amount int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin tx", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = quantity + ?, updated_at = NOW()
		WHERE id = ?`,
		amount, itemID,
	)
	if err != nil {
		return 0, storageErr("release stock", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrItemNotFound
	}

	var remaining int
	if err := tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, itemID).Scan(&remaining); err != nil {
		return 0, storageErr("query stock", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit release", err)
	}
	return remaining, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID, &item.Name, &item.SKU, &item.Category, &item.Description,
		&item.Quantity, &item.Unit, &item.Price, &item.Cost, &item.Supplier,
		&item.ReorderLevel, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate items", err)
	}
	return items, nil
}

// storageErr tags driver failures as transient storage trouble so callers
// can map them to a retryable response.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStorageUnavailable)
}
