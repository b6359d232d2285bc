package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

type MySQLSaleRepository struct {
	db *sql.DB
}

func NewMySQLSaleRepository(db *sql.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

var _ port.SaleRepository = (*MySQLSaleRepository)(nil)

func (r *MySQLSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, customer, total, payment_method, status, notes, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.Customer, sale.Total, sale.PaymentMethod, sale.Status,
		sale.Notes, sale.UserID, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert sale", err)
	}

	for i, line := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, position, item_id, quantity, price)
			VALUES (?, ?, ?, ?, ?)`,
			sale.ID, i, line.ItemID, line.Quantity, line.Price,
		)
		if err != nil {
			return storageErr("insert sale item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit sale", err)
	}
	return nil
}

func (r *MySQLSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer, total, payment_method, status, notes, user_id, created_at, updated_at
		FROM sales WHERE id = ?`, id,
	).Scan(&sale.ID, &sale.Customer, &sale.Total, &sale.PaymentMethod, &sale.Status,
		&sale.Notes, &sale.UserID, &sale.CreatedAt, &sale.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("query sale", err)
	}

	items, err := r.loadItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return &sale, nil
}

func (r *MySQLSaleRepository) List(ctx context.Context, filter port.SaleFilter) ([]domain.Sale, error) {
	query := `
		SELECT id, customer, total, payment_method, status, notes, user_id, created_at, updated_at
		FROM sales`
	var args []any

	switch {
	case filter.From != nil && filter.To != nil:
		query += ` WHERE created_at >= ? AND created_at <= ?`
		args = append(args, *filter.From, *filter.To)
	case filter.From != nil:
		query += ` WHERE created_at >= ?`
		args = append(args, *filter.From)
	case filter.To != nil:
		query += ` WHERE created_at <= ?`
		args = append(args, *filter.To)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query sales", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		err := rows.Scan(&sale.ID, &sale.Customer, &sale.Total, &sale.PaymentMethod,
			&sale.Status, &sale.Notes, &sale.UserID, &sale.CreatedAt, &sale.UpdatedAt)
		if err != nil {
			return nil, storageErr("scan sale", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sales", err)
	}

	for i := range sales {
		items, err := r.loadItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

// Update writes the header fields only. Line items are immutable once a sale
// exists; quantity changes go through delete-and-recreate so the ledger sees
// them.
func (r *MySQLSaleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sales
		SET customer = ?, payment_method = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		sale.Customer, sale.PaymentMethod, sale.Status, sale.Notes, sale.UpdatedAt, sale.ID,
	)
	if err != nil {
		return storageErr("update sale", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sales WHERE id = ?`, sale.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return storageErr("query sale", err)
		}
	}
	return nil
}

func (r *MySQLSaleRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = ?`, id); err != nil {
		return storageErr("delete sale items", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete sale", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete", err)
	}
	return nil
}

func (r *MySQLSaleRepository) PeriodStats(ctx context.Context, period port.StatsPeriod, limit int) ([]domain.PeriodStat, error) {
	var query string
	switch period {
	case port.StatsDaily:
		query = `
			SELECT YEAR(created_at), MONTH(created_at), DAY(created_at), COUNT(*), COALESCE(SUM(total), 0)
			FROM sales WHERE status = 'Completed'
			GROUP BY YEAR(created_at), MONTH(created_at), DAY(created_at)
			ORDER BY 1 DESC, 2 DESC, 3 DESC
			LIMIT ?`
	case port.StatsMonthly:
		query = `
			SELECT YEAR(created_at), MONTH(created_at), 0, COUNT(*), COALESCE(SUM(total), 0)
			FROM sales WHERE status = 'Completed'
			GROUP BY YEAR(created_at), MONTH(created_at)
			ORDER BY 1 DESC, 2 DESC
			LIMIT ?`
	case port.StatsYearly:
		query = `
			SELECT YEAR(created_at), 0, 0, COUNT(*), COALESCE(SUM(total), 0)
			FROM sales WHERE status = 'Completed'
			GROUP BY YEAR(created_at)
			ORDER BY 1 DESC
			LIMIT ?`
	default:
		return nil, domain.ErrInvalidArgument
	}

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storageErr("query sales stats", err)
	}
	defer rows.Close()

	var stats []domain.PeriodStat
	for rows.Next() {
		var s domain.PeriodStat
		if err := rows.Scan(&s.Year, &s.Month, &s.Day, &s.Count, &s.Total); err != nil {
			return nil, storageErr("scan sales stat", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sales stats", err)
	}
	return stats, nil
}

func (r *MySQLSaleRepository) loadItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, quantity, price
		FROM sale_items WHERE sale_id = ?
		ORDER BY position`, saleID)
	if err != nil {
		return nil, storageErr("query sale items", err)
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var line domain.SaleItem
		if err := rows.Scan(&line.ItemID, &line.Quantity, &line.Price); err != nil {
			return nil, storageErr("scan sale item", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sale items", err)
	}
	return items, nil
}
