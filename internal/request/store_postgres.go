package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"badbaado/pkg/bloodtype"
	"badbaado/pkg/platform/sentinel"
	"badbaado/pkg/platform/tx"
)

// PostgresStore persists blood requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const requestColumns = `id, requester_id, full_name, phone, gender, age, location, hospital,
	blood_type, urgency, description, max_donors, status, admin_id, approved_at,
	rejected_at, completed_at, cancelled_at, reject_reason, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *BloodRequest) error {
	query := `
		INSERT INTO blood_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		r.ID, r.RequesterID, r.FullName, r.Phone, r.Gender, r.Age, r.Location,
		r.Hospital, string(r.BloodType), string(r.Urgency), r.Description,
		r.MaxDonors, string(r.Status), r.AdminID, r.ApprovedAt, r.RejectedAt,
		r.CompletedAt, r.CancelledAt, nullString(r.RejectReason),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create blood request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE id = $1`
	return scanRequest(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) Update(ctx context.Context, r *BloodRequest) error {
	query := `
		UPDATE blood_requests SET
			full_name = $2, phone = $3, gender = $4, age = $5, location = $6,
			hospital = $7, blood_type = $8, urgency = $9, description = $10,
			max_donors = $11, status = $12, admin_id = $13, approved_at = $14,
			rejected_at = $15, completed_at = $16, cancelled_at = $17,
			reject_reason = $18, updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		r.ID, r.FullName, r.Phone, r.Gender, r.Age, r.Location, r.Hospital,
		string(r.BloodType), string(r.Urgency), r.Description, r.MaxDonors,
		string(r.Status), r.AdminID, r.ApprovedAt, r.RejectedAt, r.CompletedAt,
		r.CancelledAt, nullString(r.RejectReason),
	)
	if err != nil {
		return fmt.Errorf("update blood request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blood request: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*BloodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.BloodType != "" {
		args = append(args, string(f.BloodType))
		query += fmt.Sprintf(` AND blood_type = $%d`, len(args))
	}
	if f.Location != "" {
		args = append(args, f.Location)
		query += fmt.Sprintf(` AND location = $%d`, len(args))
	}
	if f.Urgency != "" {
		args = append(args, string(f.Urgency))
		query += fmt.Sprintf(` AND urgency = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blood requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *PostgresStore) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BloodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE requester_id = $1 ORDER BY created_at DESC`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests by requester: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *PostgresStore) ListPending(ctx context.Context, limit int) ([]*BloodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE status = $1 ORDER BY created_at DESC`
	args := []any{string(StatusPending)}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM blood_requests`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count blood requests: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blood_requests WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count blood requests by status: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM blood_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("request stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan request stats: %w", err)
		}
		stats.Total += n
		switch Status(status) {
		case StatusPending:
			stats.Pending = n
		case StatusApproved:
			stats.Approved = n
		case StatusRejected:
			stats.Rejected = n
		case StatusCompleted:
			stats.Completed = n
		case StatusCancelled:
			stats.Cancelled = n
		}
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*BloodRequest, error) {
	var (
		r            BloodRequest
		bt, urgency  string
		status       string
		rejectReason sql.NullString
	)
	err := row.Scan(
		&r.ID, &r.RequesterID, &r.FullName, &r.Phone, &r.Gender, &r.Age,
		&r.Location, &r.Hospital, &bt, &urgency, &r.Description, &r.MaxDonors,
		&status, &r.AdminID, &r.ApprovedAt, &r.RejectedAt, &r.CompletedAt,
		&r.CancelledAt, &rejectReason, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan blood request: %w", err)
	}
	r.BloodType = bloodtype.BloodType(bt)
	r.Urgency = Urgency(urgency)
	r.Status = Status(status)
	r.RejectReason = rejectReason.String
	return &r, nil
}

func collectRequests(rows *sql.Rows) ([]*BloodRequest, error) {
	var out []*BloodRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
