package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

// PostgresStore persists admin accounts. Email and phone uniqueness live in
// the schema; constraint rejections surface as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const adminColumns = `id, email, phone, password_hash, full_name, organization,
	position, department, role, is_active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		a.ID, a.Email, a.Phone, a.PasswordHash, a.FullName, a.Organization,
		a.Position, nullString(a.Department), string(a.Role), a.IsActive,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return scanAdmin(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) Update(ctx context.Context, a *Admin) error {
	query := `
		UPDATE admins SET
			email = $2, phone = $3, full_name = $4, organization = $5,
			position = $6, department = $7, role = $8, is_active = $9,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		a.ID, a.Email, a.Phone, a.FullName, a.Organization, a.Position,
		nullString(a.Department), string(a.Role), a.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE is_active = TRUE ORDER BY created_at DESC`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var out []*Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (*Admin, error) {
	var (
		a          Admin
		department sql.NullString
		role       string
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.Phone, &a.PasswordHash, &a.FullName,
		&a.Organization, &a.Position, &department, &role, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	a.Department = department.String
	a.Role = Role(role)
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
