package donation

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

// PostgresStore persists donations. The (request_id, donor_id) unique
// constraint is the double-response guard; its rejection surfaces as
// sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const donationColumns = `id, request_id, donor_id, status, notes, accepted_at,
	completed_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, d *Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		d.ID, d.RequestID, d.DonorID, string(d.Status), d.Notes,
		d.AcceptedAt, d.CompletedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	return scanDonation(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) Update(ctx context.Context, d *Donation) error {
	query := `
		UPDATE donations SET
			status = $2, notes = $3, accepted_at = $4, completed_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		d.ID, string(d.Status), d.Notes, d.AcceptedAt, d.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE request_id = $1 ORDER BY created_at DESC`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list donations by request: %w", err)
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID uuid.UUID, status Status) ([]*Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_id = $1`
	args := []any{donorID}
	if status != "" {
		args = append(args, string(status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations by donor: %w", err)
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (s *PostgresStore) CountByRequest(ctx context.Context, requestID uuid.UUID) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donations WHERE request_id = $1`, requestID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donations WHERE status = $1`, string(StatusCompleted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed donations: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*Donation, error) {
	var (
		d      Donation
		status string
	)
	err := row.Scan(
		&d.ID, &d.RequestID, &d.DonorID, &status, &d.Notes,
		&d.AcceptedAt, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	d.Status = Status(status)
	return &d, nil
}

func collectDonations(rows *sql.Rows) ([]*Donation, error) {
	var out []*Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
