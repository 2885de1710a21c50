package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"citizenconnect_backend/internal/complaints/domain"
)

const (
	defaultArchivePage  = 1
	defaultArchiveLimit = 20
)

// archiveConditions builds the WHERE clauses shared by the archive
// queries. The first condition pins the listing to terminal statuses.
func archiveConditions(filter ArchiveFilter) ([]string, []interface{}) {
	args := []interface{}{domain.StatusResolved, domain.StatusClosed}
	conditions := []string{"status IN ($1, $2)"}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Domain != "" {
		addCondition("domain = $%d", filter.Domain)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Department != "" {
		addCondition("department = $%d", filter.Department)
	}
	if filter.UserID != nil {
		addCondition("user_id = $%d", *filter.UserID)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	if filter.Year > 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		addCondition("closed_at >= $%d", start)
		addCondition("closed_at < $%d", start.AddDate(1, 0, 0))
	}

	return conditions, args
}

// ListArchived retrieves one page of Resolved and Closed complaints,
// most recently closed first, together with the unpaged total.
func (r *Repo) ListArchived(ctx context.Context, filter ArchiveFilter) (ArchivePage, error) {
	conditions, args := archiveConditions(filter)
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`+where, args...).Scan(&total)
	if err != nil {
		return ArchivePage{}, fmt.Errorf("count archived complaints: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = defaultArchivePage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultArchiveLimit
	}

	query := `SELECT` + complaintColumns + ` FROM complaints` + where +
		fmt.Sprintf(" ORDER BY closed_at DESC NULLS LAST LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return ArchivePage{}, fmt.Errorf("list archived complaints: %w", err)
	}
	defer rows.Close()

	complaints, err := scanComplaints(rows)
	if err != nil {
		return ArchivePage{}, err
	}
	return ArchivePage{Complaints: complaints, TotalCount: total}, nil
}

// ArchiveStatistics summarizes the caller's slice of the archive.
func (r *Repo) ArchiveStatistics(ctx context.Context, filter ArchiveFilter) (ArchiveStats, error) {
	conditions, args := archiveConditions(filter)
	where := " WHERE " + strings.Join(conditions, " AND ")

	var stats ArchiveStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(FLOOR(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600)), 0)::int
		FROM complaints`+where, args...,
	).Scan(&stats.TotalArchived, &stats.AvgResolutionHours)
	if err != nil {
		return ArchiveStats{}, fmt.Errorf("archive totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM COALESCE(closed_at, resolved_at))::int AS year, COUNT(*)
		FROM complaints`+where+`
			AND COALESCE(closed_at, resolved_at) IS NOT NULL
		GROUP BY 1
		ORDER BY 1 DESC`, args...,
	)
	if err != nil {
		return ArchiveStats{}, fmt.Errorf("archive yearly breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return ArchiveStats{}, fmt.Errorf("scan yearly breakdown: %w", err)
		}
		stats.Yearly = append(stats.Yearly, yc)
	}
	return stats, rows.Err()
}
