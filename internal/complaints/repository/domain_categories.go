package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ResolveDepartment looks up the department responsible for a
// (domain, category) pair. Returns empty with no error when no mapping
// exists; unmapped complaints simply stay unrouted.
func (r *Repo) ResolveDepartment(ctx context.Context, domainName, category string) (string, error) {
	var department string
	err := r.pool.QueryRow(ctx, `
		SELECT department FROM domain_categories
		WHERE domain = $1 AND category = $2`,
		domainName, category,
	).Scan(&department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("resolve department: %w", err)
	}
	return department, nil
}

// ListDomainCategories retrieves the full routing table, grouped for the
// intake form.
func (r *Repo) ListDomainCategories(ctx context.Context) ([]DomainCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, domain, category, department
		FROM domain_categories
		ORDER BY domain ASC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list domain categories: %w", err)
	}
	defer rows.Close()

	var categories []DomainCategory
	for rows.Next() {
		var dc DomainCategory
		if err := rows.Scan(&dc.ID, &dc.Domain, &dc.Category, &dc.Department); err != nil {
			return nil, fmt.Errorf("scan domain category: %w", err)
		}
		categories = append(categories, dc)
	}
	return categories, rows.Err()
}
