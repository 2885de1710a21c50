// Package repository provides feedback persistence and rating
// aggregation.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Feedback is a citizen's rating of a handled complaint.
type Feedback struct {
	ID          uuid.UUID `db:"id"`
	ComplaintID uuid.UUID `db:"complaint_id"`
	UserID      uuid.UUID `db:"user_id"`
	Rating      int       `db:"rating"`
	Comment     *string   `db:"comment"`
	WasResolved bool      `db:"was_resolved"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CreateParams describes a feedback submission.
type CreateParams struct {
	ComplaintID uuid.UUID
	UserID      uuid.UUID
	Rating      int
	Comment     *string
	WasResolved bool
}

// UpdateParams describes a partial feedback update. Nil fields are left
// untouched.
type UpdateParams struct {
	Rating      *int
	Comment     *string
	WasResolved *bool
}

// RatingFilter narrows rating aggregates by complaint attributes.
type RatingFilter struct {
	Department string
	Category   string
	Domain     string
}

// RatingStats summarizes ratings matching a filter.
type RatingStats struct {
	AverageRating    float64
	TotalFeedbacks   int
	Distribution     map[int]int
	SatisfactionRate float64
}

// DepartmentScore is a department's average rating.
type DepartmentScore struct {
	Department     string
	AverageRating  float64
	TotalFeedbacks int
}

// Repository persists and aggregates complaint feedback.
type Repository interface {
	Create(ctx context.Context, p CreateParams) (Feedback, error)
	Update(ctx context.Context, complaintID, userID uuid.UUID, p UpdateParams) (Feedback, error)
	Delete(ctx context.Context, complaintID, userID uuid.UUID) error
	GetByComplaint(ctx context.Context, complaintID uuid.UUID) (Feedback, error)
	ListAll(ctx context.Context) ([]Feedback, error)
	RatingStats(ctx context.Context, filter RatingFilter) (RatingStats, error)
	TopRatedDepartments(ctx context.Context) ([]DepartmentScore, error)
}
