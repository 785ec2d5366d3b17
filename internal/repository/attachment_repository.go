package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]domain.Attachment, error)
	ListAll(ctx context.Context) ([]domain.Attachment, error)
	DeleteAll(ctx context.Context) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO attachments (complaint_id, storage_key, file_name, content_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		attachment.ComplaintID,
		attachment.StorageKey,
		attachment.FileName,
		attachment.ContentType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByComplaint(ctx context.Context, complaintID int64) ([]domain.Attachment, error) {
	const query = `
        SELECT id, complaint_id, storage_key, file_name, content_type, size_bytes, created_at
        FROM attachments WHERE complaint_id=$1`
	return r.fetchMany(ctx, query, complaintID)
}

func (r *attachmentRepository) ListAll(ctx context.Context) ([]domain.Attachment, error) {
	const query = `
        SELECT id, complaint_id, storage_key, file_name, content_type, size_bytes, created_at
        FROM attachments`
	return r.fetchMany(ctx, query)
}

func (r *attachmentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attachments`)
	return err
}

func (r *attachmentRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Attachment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.ComplaintID,
			&attachment.StorageKey,
			&attachment.FileName,
			&attachment.ContentType,
			&attachment.SizeBytes,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
