package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// UserNotificationRepository persists per-user notifications.
type UserNotificationRepository interface {
	Create(ctx context.Context, notification *domain.UserNotification) error
	ListByUser(ctx context.Context, userID int64) ([]domain.UserNotification, error)
	UnreadCountByUser(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type userNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewUserNotificationRepository builds repository.
func NewUserNotificationRepository(pool *pgxpool.Pool) UserNotificationRepository {
	return &userNotificationRepository{pool: pool}
}

func (r *userNotificationRepository) Create(ctx context.Context, notification *domain.UserNotification) error {
	const query = `
        INSERT INTO user_notifications (user_id, complaint_id, type, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.ComplaintID,
		notification.Type,
		notification.Message,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *userNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.UserNotification, error) {
	const query = `
        SELECT id, user_id, complaint_id, type, message, is_read, created_at
        FROM user_notifications WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserNotification
	for rows.Next() {
		var notification domain.UserNotification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.ComplaintID,
			&notification.Type,
			&notification.Message,
			&notification.Read,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *userNotificationRepository) UnreadCountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_notifications WHERE user_id=$1 AND is_read=FALSE`, userID).Scan(&count)
	return count, err
}

func (r *userNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE user_notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userNotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE`, userID)
	return err
}
