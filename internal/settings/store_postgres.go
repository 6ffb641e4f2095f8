package settings

import (
	"context"
	"database/sql"
	"fmt"

	"badbaado/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, setting *Setting) error {
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO system_settings (key, value, description, category, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = EXCLUDED.description,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`,
		setting.Key, setting.Value, setting.Description, setting.Category,
		setting.UpdatedBy, setting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, category string) ([]*Setting, error) {
	query := `SELECT key, value, description, category, updated_by, updated_at FROM system_settings`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category ASC, key ASC`

	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []*Setting
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Description,
			&setting.Category, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, &setting)
	}
	return out, rows.Err()
}
