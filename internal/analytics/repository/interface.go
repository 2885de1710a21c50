// Package repository provides read-only aggregation queries over
// complaints for dashboards, trends, and geo visualizations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Scope restricts aggregates to a department. A zero Scope covers the
// whole city.
type Scope struct {
	Department string
}

// BreakdownRow is one bucket of a grouped count.
type BreakdownRow struct {
	Label string
	Count int
}

// TrendBucket is one time bucket of the complaints trend.
type TrendBucket struct {
	Date     string
	Total    int
	Resolved int
}

// EmployeePerformance aggregates one employee's workload outcomes.
type EmployeePerformance struct {
	EmployeeID         uuid.UUID
	Name               string
	Email              string
	Department         *string
	Role               string
	Assigned           int
	Resolved           int
	AvgResolutionHours int
}

// TimelineEntry is one status update with its author resolved.
type TimelineEntry struct {
	ID            uuid.UUID
	Status        string
	Remarks       *string
	UpdatedByName *string
	UpdatedByRole *string
	UpdatedAt     time.Time
}

// ComplaintSummary carries the complaint header for its timeline.
type ComplaintSummary struct {
	ID          uuid.UUID
	Title       string
	Status      string
	CreatorID   uuid.UUID
	CreatorName string
	CreatedAt   time.Time
	ClosedAt    *time.Time
	HasFeedback bool
}

// StatusChange is one entry of the recent activity feed.
type StatusChange struct {
	ID             uuid.UUID
	ComplaintID    uuid.UUID
	ComplaintTitle string
	Domain         string
	Category       string
	Status         string
	Remarks        *string
	UpdatedByName  *string
	UpdatedByRole  *string
	UpdatedAt      time.Time
}

// MapFilter narrows geo point queries.
type MapFilter struct {
	Scope    Scope
	Status   string
	Domain   string
	Category string
	Ward     string
	Zone     string
	District string
}

// MapPoint is one complaint with coordinates.
type MapPoint struct {
	ID        uuid.UUID
	Title     string
	Domain    string
	Category  string
	Status    string
	Latitude  float64
	Longitude float64
	Ward      *string
	Zone      *string
	District  *string
	Location  *string
	CreatedAt time.Time
}

// GeoPoint is a bare coordinate pair of an open complaint.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// AreaRow is one complaint's area and status for area statistics.
type AreaRow struct {
	Area   string
	Status string
}

// Repository provides aggregate reads for analytics.
type Repository interface {
	TotalComplaints(ctx context.Context, scope Scope) (int, error)
	StatusBreakdown(ctx context.Context, scope Scope) (map[string]int, error)
	AvgResolutionHours(ctx context.Context, scope Scope) (int, error)
	CountCreatedSince(ctx context.Context, scope Scope, since time.Time) (int, error)
	CategoryBreakdown(ctx context.Context, scope Scope) ([]BreakdownRow, error)
	DomainBreakdown(ctx context.Context, scope Scope) ([]BreakdownRow, error)
	DepartmentBreakdown(ctx context.Context) ([]BreakdownRow, error)
	Trend(ctx context.Context, scope Scope, since time.Time, bucket string) ([]TrendBucket, error)
	EmployeePerformance(ctx context.Context) ([]EmployeePerformance, error)
	ComplaintSummary(ctx context.Context, complaintID uuid.UUID) (ComplaintSummary, error)
	Timeline(ctx context.Context, complaintID uuid.UUID) ([]TimelineEntry, error)
	RecentStatusChanges(ctx context.Context, citizenID *uuid.UUID, limit int) ([]StatusChange, error)
	MapPoints(ctx context.Context, filter MapFilter) ([]MapPoint, error)
	OpenGeoPoints(ctx context.Context) ([]GeoPoint, error)
	AreaRows(ctx context.Context, field string) ([]AreaRow, error)
}
