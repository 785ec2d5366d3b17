package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintUpdateRepository stores audit trail entries. Entries are never
// mutated; DeleteAll exists only for the administrative reset.
type ComplaintUpdateRepository interface {
	Create(ctx context.Context, update *domain.ComplaintUpdate) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]domain.ComplaintUpdate, error)
	DeleteAll(ctx context.Context) error
}

type complaintUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintUpdateRepository builds repository.
func NewComplaintUpdateRepository(pool *pgxpool.Pool) ComplaintUpdateRepository {
	return &complaintUpdateRepository{pool: pool}
}

func (r *complaintUpdateRepository) Create(ctx context.Context, update *domain.ComplaintUpdate) error {
	const query = `
        INSERT INTO complaint_updates (complaint_id, updated_by, old_status, new_status, comments)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, updated_at`
	return r.pool.QueryRow(ctx, query,
		update.ComplaintID,
		update.UpdatedByID,
		update.OldStatus,
		update.NewStatus,
		update.Comment,
	).Scan(&update.ID, &update.UpdatedAt)
}

func (r *complaintUpdateRepository) ListByComplaint(ctx context.Context, complaintID int64) ([]domain.ComplaintUpdate, error) {
	const query = `
        SELECT id, complaint_id, updated_by, old_status, new_status, COALESCE(comments, ''), updated_at
        FROM complaint_updates WHERE complaint_id=$1 ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintUpdate
	for rows.Next() {
		var update domain.ComplaintUpdate
		if err := rows.Scan(
			&update.ID,
			&update.ComplaintID,
			&update.UpdatedByID,
			&update.OldStatus,
			&update.NewStatus,
			&update.Comment,
			&update.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, update)
	}
	return result, rows.Err()
}

func (r *complaintUpdateRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM complaint_updates`)
	return err
}
