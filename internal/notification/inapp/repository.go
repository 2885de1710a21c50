package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/platform/apperr"
)

// Notification is a persisted in-app notification. Complaint fields are
// joined in for list rendering and are nil when the complaint was deleted.
type Notification struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	Message         string     `json:"message"`
	ComplaintID     *uuid.UUID `json:"complaintId,omitempty"`
	ComplaintTitle  *string    `json:"complaintTitle,omitempty"`
	ComplaintStatus *string    `json:"complaintStatus,omitempty"`
	IsRead          bool       `json:"isRead"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateParams describes a notification to persist.
type CreateParams struct {
	UserID      uuid.UUID
	Message     string
	ComplaintID *uuid.UUID
}

// Repository persists in-app notifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists a notification.
func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if p.UserID == uuid.Nil {
		return Notification{}, apperr.Validation("userId is required")
	}
	if p.Message == "" {
		return Notification{}, apperr.Validation("message is required")
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, complaint_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, message, complaint_id, is_read, created_at`,
		p.UserID, p.Message, p.ComplaintID,
	).Scan(&n.ID, &n.UserID, &n.Message, &n.ComplaintID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// ListForUser retrieves a user's notifications, unread first then newest
// first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.user_id, n.message, n.complaint_id, c.title, c.status, n.is_read, n.created_at
		FROM notifications n
		LEFT JOIN complaints c ON c.id = n.complaint_id
		WHERE n.user_id = $1
		ORDER BY n.is_read ASC, n.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.ComplaintID, &n.ComplaintTitle, &n.ComplaintStatus, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead marks one of the user's notifications as read. A notification
// belonging to another user is reported as not found.
func (r *Repository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, message, complaint_id, is_read, created_at`,
		notificationID, userID,
	).Scan(&n.ID, &n.UserID, &n.Message, &n.ComplaintID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, apperr.NotFound("notification not found")
		}
		return Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the user as read.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
