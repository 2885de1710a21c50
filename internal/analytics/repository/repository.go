package repository

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

// Repo is the pgx-backed analytics repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new analytics repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// scopeClause appends a department condition when the scope is limited.
func scopeClause(scope Scope, args []interface{}) (string, []interface{}) {
	if scope.Department == "" {
		return "", args
	}
	args = append(args, scope.Department)
	return fmt.Sprintf(" AND department = $%d", len(args)), args
}

// TotalComplaints counts complaints in scope.
func (r *Repo) TotalComplaints(ctx context.Context, scope Scope) (int, error) {
	query := `SELECT COUNT(*) FROM complaints WHERE TRUE`
	clause, args := scopeClause(scope, nil)

	var count int
	if err := r.pool.QueryRow(ctx, query+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("total complaints: %w", err)
	}
	return count, nil
}

// StatusBreakdown counts complaints in scope grouped by status.
func (r *Repo) StatusBreakdown(ctx context.Context, scope Scope) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM complaints WHERE TRUE`
	clause, args := scopeClause(scope, nil)

	rows, err := r.pool.Query(ctx, query+clause+" GROUP BY status", args...)
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status breakdown: %w", err)
		}
		breakdown[status] = count
	}
	return breakdown, rows.Err()
}

// AvgResolutionHours computes the mean time from creation to resolution
// over resolved complaints in scope, floored to whole hours.
func (r *Repo) AvgResolutionHours(ctx context.Context, scope Scope) (int, error) {
	query := `
		SELECT COALESCE(FLOOR(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600)), 0)::int
		FROM complaints
		WHERE status IN ('Resolved', 'Closed') AND resolved_at IS NOT NULL`
	clause, args := scopeClause(scope, nil)

	var hours int
	if err := r.pool.QueryRow(ctx, query+clause, args...).Scan(&hours); err != nil {
		return 0, fmt.Errorf("avg resolution hours: %w", err)
	}
	return hours, nil
}

// CountCreatedSince counts complaints in scope created at or after the
// given instant.
func (r *Repo) CountCreatedSince(ctx context.Context, scope Scope, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM complaints WHERE created_at >= $1`
	clause, args := scopeClause(scope, []interface{}{since})

	var count int
	if err := r.pool.QueryRow(ctx, query+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count created since: %w", err)
	}
	return count, nil
}

// CategoryBreakdown counts complaints in scope grouped by category,
// largest first.
func (r *Repo) CategoryBreakdown(ctx context.Context, scope Scope) ([]BreakdownRow, error) {
	query := `SELECT category, COUNT(*) FROM complaints WHERE TRUE`
	clause, args := scopeClause(scope, nil)
	return r.queryBreakdown(ctx, query+clause+" GROUP BY category ORDER BY 2 DESC", args)
}

// DomainBreakdown counts complaints in scope grouped by domain,
// largest first.
func (r *Repo) DomainBreakdown(ctx context.Context, scope Scope) ([]BreakdownRow, error) {
	query := `SELECT domain, COUNT(*) FROM complaints WHERE TRUE`
	clause, args := scopeClause(scope, nil)
	return r.queryBreakdown(ctx, query+clause+" GROUP BY domain ORDER BY 2 DESC", args)
}

// DepartmentBreakdown counts complaints city-wide grouped by department.
func (r *Repo) DepartmentBreakdown(ctx context.Context) ([]BreakdownRow, error) {
	return r.queryBreakdown(ctx, `
		SELECT COALESCE(department, 'Unassigned'), COUNT(*)
		FROM complaints
		GROUP BY 1 ORDER BY 2 DESC`, nil)
}

func (r *Repo) queryBreakdown(ctx context.Context, query string, args []interface{}) ([]BreakdownRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("breakdown query: %w", err)
	}
	defer rows.Close()

	var result []BreakdownRow
	for rows.Next() {
		var row BreakdownRow
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Trend buckets complaints in scope created since the given instant by
// day or month, with resolved counts per bucket.
func (r *Repo) Trend(ctx context.Context, scope Scope, since time.Time, bucket string) ([]TrendBucket, error) {
	format := "YYYY-MM-DD"
	if bucket == "month" {
		format = "YYYY-MM"
	}

	query := fmt.Sprintf(`
		SELECT to_char(date_trunc('%s', created_at), '%s'),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('Resolved', 'Closed'))
		FROM complaints
		WHERE created_at >= $1`, bucketUnit(bucket), format)
	clause, args := scopeClause(scope, []interface{}{since})
	query += clause + " GROUP BY 1 ORDER BY 1"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trend query: %w", err)
	}
	defer rows.Close()

	var buckets []TrendBucket
	for rows.Next() {
		var b TrendBucket
		if err := rows.Scan(&b.Date, &b.Total, &b.Resolved); err != nil {
			return nil, fmt.Errorf("scan trend bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func bucketUnit(bucket string) string {
	if bucket == "month" {
		return "month"
	}
	return "day"
}

// EmployeePerformance aggregates assignment outcomes for every
// department employee and admin.
func (r *Repo) EmployeePerformance(ctx context.Context) ([]EmployeePerformance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.department, u.role,
		       COUNT(c.id),
		       COUNT(c.id) FILTER (WHERE c.status IN ('Resolved', 'Closed')),
		       COALESCE(FLOOR(AVG(EXTRACT(EPOCH FROM (c.resolved_at - c.created_at)) / 3600)
		           FILTER (WHERE c.resolved_at IS NOT NULL)), 0)::int
		FROM users u
		LEFT JOIN complaints c ON c.assigned_to_id = u.id
		WHERE u.role IN ('DEPARTMENT_EMPLOYEE', 'DEPARTMENT_ADMIN')
		GROUP BY u.id, u.name, u.email, u.department, u.role`)
	if err != nil {
		return nil, fmt.Errorf("employee performance: %w", err)
	}
	defer rows.Close()

	var result []EmployeePerformance
	for rows.Next() {
		var p EmployeePerformance
		if err := rows.Scan(&p.EmployeeID, &p.Name, &p.Email, &p.Department, &p.Role, &p.Assigned, &p.Resolved, &p.AvgResolutionHours); err != nil {
			return nil, fmt.Errorf("scan employee performance: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ComplaintSummary retrieves the complaint header for its timeline.
func (r *Repo) ComplaintSummary(ctx context.Context, complaintID uuid.UUID) (ComplaintSummary, error) {
	var s ComplaintSummary
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.title, c.status, c.user_id, u.name, c.created_at, c.closed_at,
		       EXISTS (SELECT 1 FROM feedback f WHERE f.complaint_id = c.id)
		FROM complaints c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`,
		complaintID,
	).Scan(&s.ID, &s.Title, &s.Status, &s.CreatorID, &s.CreatorName, &s.CreatedAt, &s.ClosedAt, &s.HasFeedback)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ComplaintSummary{}, apperr.NotFound("complaint not found")
		}
		return ComplaintSummary{}, fmt.Errorf("complaint summary: %w", err)
	}
	return s, nil
}

// Timeline retrieves a complaint's status updates oldest first with the
// author resolved.
func (r *Repo) Timeline(ctx context.Context, complaintID uuid.UUID) ([]TimelineEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.status, s.remarks, u.name, u.role, s.updated_at
		FROM status_updates s
		LEFT JOIN users u ON u.id = s.updated_by_id
		WHERE s.complaint_id = $1
		ORDER BY s.updated_at ASC`,
		complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("timeline query: %w", err)
	}
	defer rows.Close()

	var entries []TimelineEntry
	for rows.Next() {
		var e TimelineEntry
		if err := rows.Scan(&e.ID, &e.Status, &e.Remarks, &e.UpdatedByName, &e.UpdatedByRole, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecentStatusChanges retrieves the newest status updates, optionally
// restricted to a citizen's own complaints.
func (r *Repo) RecentStatusChanges(ctx context.Context, citizenID *uuid.UUID, limit int) ([]StatusChange, error) {
	query := `
		SELECT s.id, c.id, c.title, c.domain, c.category, s.status, s.remarks, u.name, u.role, s.updated_at
		FROM status_updates s
		JOIN complaints c ON c.id = s.complaint_id
		LEFT JOIN users u ON u.id = s.updated_by_id`
	args := []interface{}{limit}
	if citizenID != nil {
		args = append(args, *citizenID)
		query += fmt.Sprintf(" WHERE c.user_id = $%d", len(args))
	}
	query += " ORDER BY s.updated_at DESC LIMIT $1"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent status changes: %w", err)
	}
	defer rows.Close()

	var changes []StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.ComplaintID, &sc.ComplaintTitle, &sc.Domain, &sc.Category, &sc.Status, &sc.Remarks, &sc.UpdatedByName, &sc.UpdatedByRole, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		changes = append(changes, sc)
	}
	return changes, rows.Err()
}

// MapPoints retrieves complaints with coordinates matching the filter,
// newest first.
func (r *Repo) MapPoints(ctx context.Context, filter MapFilter) ([]MapPoint, error) {
	query := `
		SELECT id, title, domain, category, status, latitude, longitude,
		       ward, zone, district, location, created_at
		FROM complaints
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`
	var args []interface{}

	addCondition := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}
	addCondition("department", filter.Scope.Department)
	addCondition("status", filter.Status)
	addCondition("domain", filter.Domain)
	addCondition("category", filter.Category)
	addCondition("ward", filter.Ward)
	addCondition("zone", filter.Zone)
	addCondition("district", filter.District)
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("map points: %w", err)
	}
	defer rows.Close()

	var points []MapPoint
	for rows.Next() {
		var p MapPoint
		if err := rows.Scan(&p.ID, &p.Title, &p.Domain, &p.Category, &p.Status, &p.Latitude, &p.Longitude, &p.Ward, &p.Zone, &p.District, &p.Location, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan map point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// OpenGeoPoints retrieves the coordinates of every non-closed complaint.
func (r *Repo) OpenGeoPoints(ctx context.Context) ([]GeoPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT latitude, longitude
		FROM complaints
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL AND status <> 'Closed'`)
	if err != nil {
		return nil, fmt.Errorf("open geo points: %w", err)
	}
	defer rows.Close()

	var points []GeoPoint
	for rows.Next() {
		var p GeoPoint
		if err := rows.Scan(&p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan geo point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// AreaRows retrieves the area value and status of every complaint that
// has the chosen area field set. The field must be one of ward, zone,
// or district; callers validate before reaching here.
func (r *Repo) AreaRows(ctx context.Context, field string) ([]AreaRow, error) {
	switch field {
	case "ward", "zone", "district":
	default:
		return nil, apperr.Validation("groupBy must be ward, zone, or district")
	}

	query := fmt.Sprintf(`
		SELECT %s, status FROM complaints WHERE %s IS NOT NULL`, field, field)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("area rows: %w", err)
	}
	defer rows.Close()

	var result []AreaRow
	for rows.Next() {
		var row AreaRow
		if err := rows.Scan(&row.Area, &row.Status); err != nil {
			return nil, fmt.Errorf("scan area row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
