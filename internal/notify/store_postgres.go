package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

const notificationColumns = `id, user_id, title, body, kind, is_read, read_at, created_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, n *Notification) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, body, kind, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Title, n.Body, string(n.Kind), n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID, isRead *bool) ([]*Notification, error) {
	q := tx.Resolve(ctx, s.db)
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}
	if isRead != nil {
		query += ` AND is_read = $2`
		args = append(args, *isRead)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkRead(ctx context.Context, id, userID uuid.UUID) (*Notification, error) {
	q := tx.Resolve(ctx, s.db)
	var ownerID uuid.UUID
	err := q.QueryRowContext(ctx, `SELECT user_id FROM notifications WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", err)
	}
	if ownerID != userID {
		return nil, sentinel.ErrInvalidState
	}

	now := time.Now()
	row := q.QueryRowContext(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = $2
		WHERE id = $1
		RETURNING `+notificationColumns,
		id, now,
	)
	return scanNotification(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*Notification, error) {
	var (
		n      Notification
		kind   string
		readAt sql.NullTime
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &kind, &n.IsRead, &readAt, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.Kind = Kind(kind)
	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	return &n, nil
}
