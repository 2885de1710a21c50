package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StaleComplaint is a complaint that sat too long in one state.
type StaleComplaint struct {
	ID         uuid.UUID
	Title      string
	Status     string
	Department *string
	StaleSince time.Time
}

// Repository finds complaints eligible for escalation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new scheduler repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindStale returns complaints that were Raised before raisedBefore
// without being acknowledged, or moved to InProgress before
// progressBefore without being resolved.
func (r *Repository) FindStale(ctx context.Context, raisedBefore, progressBefore time.Time) ([]StaleComplaint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, status, department,
		       CASE WHEN status = 'Raised' THEN created_at ELSE in_progress_at END
		FROM complaints
		WHERE (status = 'Raised' AND created_at < $1)
		   OR (status = 'InProgress' AND in_progress_at < $2)
		ORDER BY 5 ASC`, raisedBefore, progressBefore)
	if err != nil {
		return nil, fmt.Errorf("find stale complaints: %w", err)
	}
	defer rows.Close()

	var stale []StaleComplaint
	for rows.Next() {
		var sc StaleComplaint
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Status, &sc.Department, &sc.StaleSince); err != nil {
			return nil, fmt.Errorf("scan stale complaint: %w", err)
		}
		stale = append(stale, sc)
	}
	return stale, rows.Err()
}
