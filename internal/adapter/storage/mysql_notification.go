package storage

import (
	"context"
	"database/sql"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

var _ port.NotificationRepository = (*MySQLNotificationRepository)(nil)

func (r *MySQLNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, type, message, item_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Message, nullString(n.ItemID), n.Read, n.CreatedAt,
	)
	if err != nil {
		return storageErr("insert notification", err)
	}
	return nil
}

func (r *MySQLNotificationRepository) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT id, type, message, COALESCE(item_id, ''), is_read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query notifications", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.ItemID, &n.Read, &n.CreatedAt); err != nil {
			return nil, storageErr("scan notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate notifications", err)
	}
	return out, nil
}

func (r *MySQLNotificationRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
	if err != nil {
		return storageErr("mark notification read", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM notifications WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return storageErr("query notification", err)
		}
	}
	return nil
}

func (r *MySQLNotificationRepository) MarkAllRead(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`); err != nil {
		return storageErr("mark notifications read", err)
	}
	return nil
}

func (r *MySQLNotificationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete notification", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
