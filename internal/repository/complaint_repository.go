package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const complaintColumns = `id, complaint_number, title, description, status, category, priority,
               is_anonymous, created_by, assigned_to, created_at, updated_at, is_escalated, escalated_at`

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	UpdateNumber(ctx context.Context, id int64, number string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	GetTopByNumber(ctx context.Context) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListOrderedByCreation(ctx context.Context) ([]domain.Complaint, error)
	ListByCreator(ctx context.Context, userID int64) ([]domain.Complaint, error)
	ListByAssignee(ctx context.Context, userID int64) ([]domain.Complaint, error)
	CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (complaint_number, title, description, status, category, priority, is_anonymous, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Number,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Category,
		complaint.Priority,
		complaint.Anonymous,
		complaint.CreatedByID,
		complaint.AssigneeID,
	).Scan(&complaint.ID, &complaint.CreatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET complaint_number=$1, title=$2, description=$3, status=$4, category=$5,
            priority=$6, is_anonymous=$7, assigned_to=$8, updated_at=$9, is_escalated=$10, escalated_at=$11
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Number,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Category,
		complaint.Priority,
		complaint.Anonymous,
		complaint.AssigneeID,
		complaint.UpdatedAt,
		complaint.Escalated,
		complaint.EscalatedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) UpdateNumber(ctx context.Context, id int64, number string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET complaint_number=$1 WHERE id=$2`, number, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetTopByNumber returns the complaint with the highest complaint number, or
// pgx.ErrNoRows when no complaints exist.
func (r *complaintRepository) GetTopByNumber(ctx context.Context) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY complaint_number DESC LIMIT 1`
	return r.fetchSingle(ctx, query)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *complaintRepository) ListOrderedByCreation(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at ASC`
	return r.fetchMany(ctx, query)
}

func (r *complaintRepository) ListByCreator(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE created_by=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, userID)
}

func (r *complaintRepository) ListByAssignee(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE assigned_to=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, userID)
}

func (r *complaintRepository) CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&complaint.ID,
		&complaint.Number,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Anonymous,
		&complaint.CreatedByID,
		&complaint.AssigneeID,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.Escalated,
		&complaint.EscalatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Number,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Anonymous,
			&complaint.CreatedByID,
			&complaint.AssigneeID,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.Escalated,
			&complaint.EscalatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
