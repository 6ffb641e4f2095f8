package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"badbaado/pkg/bloodtype"
	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

// PostgresStore persists users in PostgreSQL. This store is pure I/O; the
// uniqueness guards live in the schema (unique phone, unique email) and
// constraint rejections surface as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, full_name, phone, email, password_hash, gender, age, location,
	blood_type, role, is_active, is_eligible, last_donation, total_donations,
	deactivated_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		u.ID, u.FullName, u.Phone, nullString(u.Email), u.PasswordHash, u.Gender,
		u.Age, u.Location, string(u.BloodType), string(u.Role), u.IsActive,
		u.IsEligible, u.LastDonation, u.TotalDonations, u.DeactivatedAt,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, phone))
}

func (s *PostgresStore) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users SET
			full_name = $2, phone = $3, email = $4, gender = $5, age = $6,
			location = $7, blood_type = $8, role = $9, is_active = $10,
			is_eligible = $11, last_donation = $12, total_donations = $13,
			deactivated_at = $14, updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		u.ID, u.FullName, u.Phone, nullString(u.Email), u.Gender, u.Age,
		u.Location, string(u.BloodType), string(u.Role), u.IsActive,
		u.IsEligible, u.LastDonation, u.TotalDonations, u.DeactivatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := fmt.Sprintf("$%d", len(args))
		query += ` AND (full_name ILIKE ` + n + ` OR email ILIKE ` + n + ` OR location ILIKE ` + n + `)`
	}
	if f.BloodType != "" {
		args = append(args, string(f.BloodType))
		query += fmt.Sprintf(` AND blood_type = $%d`, len(args))
	}
	if f.Location != "" {
		args = append(args, f.Location)
		query += fmt.Sprintf(` AND location = $%d`, len(args))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		query += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) FindEligible(ctx context.Context, f EligibleFilter, limit int) ([]*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE blood_type = $1
		  AND location ILIKE '%' || $2 || '%'
		  AND is_active = TRUE
		  AND is_eligible = TRUE
		  AND (last_donation IS NULL OR last_donation < $3)
		ORDER BY created_at DESC
	`
	args := []any{string(f.BloodType), f.Location, f.DonatedBefore}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find eligible donors: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) RecordCompletedDonation(ctx context.Context, donorID uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE users SET
			is_eligible = FALSE,
			last_donation = $2,
			total_donations = total_donations + 1,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query, donorID, completedAt)
	if err != nil {
		return fmt.Errorf("record completed donation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record completed donation: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u         User
		email     sql.NullString
		bloodType string
		role      string
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.Phone, &email, &u.PasswordHash, &u.Gender,
		&u.Age, &u.Location, &bloodType, &role, &u.IsActive, &u.IsEligible,
		&u.LastDonation, &u.TotalDonations, &u.DeactivatedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Email = email.String
	u.BloodType = bloodtype.BloodType(bloodType)
	u.Role = Role(role)
	return &u, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
