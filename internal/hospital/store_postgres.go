package hospital

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const hospitalColumns = `id, name, phone, location, is_active, created_at`

func (s *PostgresStore) Create(ctx context.Context, h *Hospital) error {
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO hospitals (`+hospitalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.Name, h.Phone, h.Location, h.IsActive, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create hospital: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	var h Hospital
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.Phone, &h.Location, &h.IsActive, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find hospital: %w", err)
	}
	return &h, nil
}

func (s *PostgresStore) Update(ctx context.Context, h *Hospital) error {
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		UPDATE hospitals SET name = $2, phone = $3, location = $4, is_active = $5
		WHERE id = $1`,
		h.ID, h.Name, h.Phone, h.Location, h.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update hospital: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update hospital: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hospital: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete hospital: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Hospital, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	defer rows.Close()

	var out []*Hospital
	for rows.Next() {
		var h Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Phone, &h.Location, &h.IsActive, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
