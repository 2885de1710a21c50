package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/platform/apperr"
)

const feedbackColumns = `id, complaint_id, user_id, rating, comment, was_resolved, created_at, updated_at`

// Repo is the pgx-backed feedback repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new feedback repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create persists a feedback submission. A second submission for the
// same complaint by the same user is rejected.
func (r *Repo) Create(ctx context.Context, p CreateParams) (Feedback, error) {
	var f Feedback
	err := r.pool.QueryRow(ctx, `
		INSERT INTO feedback (complaint_id, user_id, rating, comment, was_resolved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+feedbackColumns,
		p.ComplaintID, p.UserID, p.Rating, p.Comment, p.WasResolved,
	).Scan(&f.ID, &f.ComplaintID, &f.UserID, &f.Rating, &f.Comment, &f.WasResolved, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return Feedback{}, apperr.Conflict("feedback already submitted for this complaint")
		}
		return Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// Update applies a partial update to the user's feedback on a complaint.
func (r *Repo) Update(ctx context.Context, complaintID, userID uuid.UUID, p UpdateParams) (Feedback, error) {
	var f Feedback
	err := r.pool.QueryRow(ctx, `
		UPDATE feedback
		SET rating = COALESCE($3, rating),
		    comment = COALESCE($4, comment),
		    was_resolved = COALESCE($5, was_resolved),
		    updated_at = now()
		WHERE complaint_id = $1 AND user_id = $2
		RETURNING `+feedbackColumns,
		complaintID, userID, p.Rating, p.Comment, p.WasResolved,
	).Scan(&f.ID, &f.ComplaintID, &f.UserID, &f.Rating, &f.Comment, &f.WasResolved, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Feedback{}, apperr.NotFound("feedback not found")
		}
		return Feedback{}, fmt.Errorf("update feedback: %w", err)
	}
	return f, nil
}

// Delete removes the user's feedback on a complaint.
func (r *Repo) Delete(ctx context.Context, complaintID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM feedback WHERE complaint_id = $1 AND user_id = $2`,
		complaintID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("feedback not found")
	}
	return nil
}

// GetByComplaint retrieves the feedback left on a complaint.
func (r *Repo) GetByComplaint(ctx context.Context, complaintID uuid.UUID) (Feedback, error) {
	var f Feedback
	err := r.pool.QueryRow(ctx, `
		SELECT `+feedbackColumns+` FROM feedback WHERE complaint_id = $1`,
		complaintID,
	).Scan(&f.ID, &f.ComplaintID, &f.UserID, &f.Rating, &f.Comment, &f.WasResolved, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Feedback{}, apperr.NotFound("no feedback found for this complaint")
		}
		return Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return f, nil
}

// ListAll retrieves every feedback entry, newest first.
func (r *Repo) ListAll(ctx context.Context) ([]Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var items []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.ComplaintID, &f.UserID, &f.Rating, &f.Comment, &f.WasResolved, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// RatingStats aggregates ratings for complaints matching the filter.
func (r *Repo) RatingStats(ctx context.Context, filter RatingFilter) (RatingStats, error) {
	query := `
		SELECT f.rating, COUNT(*), COUNT(*) FILTER (WHERE f.was_resolved)
		FROM feedback f
		JOIN complaints c ON c.id = f.complaint_id`
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("c.department = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("c.category = $%d", len(args)))
	}
	if filter.Domain != "" {
		args = append(args, filter.Domain)
		conditions = append(conditions, fmt.Sprintf("c.domain = $%d", len(args)))
	}
	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " GROUP BY f.rating"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return RatingStats{}, fmt.Errorf("rating stats: %w", err)
	}
	defer rows.Close()

	stats := RatingStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	total := 0
	sum := 0
	resolved := 0
	for rows.Next() {
		var rating, count, resolvedCount int
		if err := rows.Scan(&rating, &count, &resolvedCount); err != nil {
			return RatingStats{}, fmt.Errorf("scan rating stats: %w", err)
		}
		stats.Distribution[rating] = count
		total += count
		sum += rating * count
		resolved += resolvedCount
	}
	if err := rows.Err(); err != nil {
		return RatingStats{}, err
	}

	stats.TotalFeedbacks = total
	if total > 0 {
		stats.AverageRating = round2(float64(sum) / float64(total))
		stats.SatisfactionRate = round2(float64(resolved) / float64(total) * 100)
	}
	return stats, nil
}

// TopRatedDepartments ranks departments by average rating.
func (r *Repo) TopRatedDepartments(ctx context.Context) ([]DepartmentScore, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(c.department, 'Unassigned'), AVG(f.rating)::float8, COUNT(*)
		FROM feedback f
		JOIN complaints c ON c.id = f.complaint_id
		GROUP BY 1
		ORDER BY 2 DESC`)
	if err != nil {
		return nil, fmt.Errorf("top rated departments: %w", err)
	}
	defer rows.Close()

	var scores []DepartmentScore
	for rows.Next() {
		var s DepartmentScore
		if err := rows.Scan(&s.Department, &s.AverageRating, &s.TotalFeedbacks); err != nil {
			return nil, fmt.Errorf("scan department score: %w", err)
		}
		s.AverageRating = round2(s.AverageRating)
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
