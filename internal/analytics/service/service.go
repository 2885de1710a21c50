// Package service computes dashboard aggregates, trends, timelines,
// and geospatial summaries from complaint data.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"citizenconnect_backend/internal/analytics/repository"
	"citizenconnect_backend/internal/analytics/transport"
	compdomain "citizenconnect_backend/internal/complaints/domain"
	identitydomain "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
	"citizenconnect_backend/platform/logger"
)

const defaultRecentLimit = 20

// defaultGridSize is roughly 1.1km at the equator.
const defaultGridSize = 0.01

// Service computes analytics over complaints.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new analytics service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// scopeFor restricts department staff to their own department's data.
// City-level roles and ward officers see everything.
func scopeFor(actorRole, actorDepartment string) repository.Scope {
	switch actorRole {
	case identitydomain.RoleDepartmentAdmin, identitydomain.RoleDepartmentEmployee:
		return repository.Scope{Department: actorDepartment}
	default:
		return repository.Scope{}
	}
}

// Dashboard assembles the headline statistics panel. The six aggregate
// queries are independent, so they run concurrently.
func (s *Service) Dashboard(ctx context.Context, actorRole, actorDepartment string) (transport.DashboardResponse, error) {
	scope := scopeFor(actorRole, actorDepartment)

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := now.AddDate(0, 0, -7)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		total, avgHours    int
		today, week, month int
		breakdown          map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.TotalComplaints(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		breakdown, err = s.repo.StatusBreakdown(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		avgHours, err = s.repo.AvgResolutionHours(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		today, err = s.repo.CountCreatedSince(gctx, scope, startOfToday)
		return err
	})
	g.Go(func() (err error) {
		week, err = s.repo.CountCreatedSince(gctx, scope, startOfWeek)
		return err
	})
	g.Go(func() (err error) {
		month, err = s.repo.CountCreatedSince(gctx, scope, startOfMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, apperr.Wrap(apperr.KindInternal, "load dashboard statistics", err)
	}

	closed := breakdown[string(compdomain.StatusClosed)]
	return transport.DashboardResponse{
		Overview: transport.Overview{
			Total:     total,
			Active:    total - closed,
			Closed:    closed,
			TodayNew:  today,
			ThisWeek:  week,
			ThisMonth: month,
		},
		StatusBreakdown: transport.StatusBreakdown{
			Raised:       breakdown[string(compdomain.StatusRaised)],
			Acknowledged: breakdown[string(compdomain.StatusAcknowledged)],
			InProgress:   breakdown[string(compdomain.StatusInProgress)],
			Resolved:     breakdown[string(compdomain.StatusResolved)],
			Closed:       closed,
		},
		AverageResolutionTimeHours:     avgHours,
		AverageResolutionTimeFormatted: formatHours(avgHours),
	}, nil
}

// CategoryBreakdown groups complaints in the actor's scope by category.
func (s *Service) CategoryBreakdown(ctx context.Context, actorRole, actorDepartment string) (transport.CategoryBreakdownResponse, error) {
	rows, err := s.repo.CategoryBreakdown(ctx, scopeFor(actorRole, actorDepartment))
	if err != nil {
		return transport.CategoryBreakdownResponse{}, err
	}

	buckets := make([]transport.CategoryBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, transport.CategoryBucket{Category: row.Label, Count: row.Count})
	}
	return transport.CategoryBreakdownResponse{CategoryBreakdown: buckets, TotalCategories: len(buckets)}, nil
}

// DomainBreakdown groups complaints in the actor's scope by domain.
func (s *Service) DomainBreakdown(ctx context.Context, actorRole, actorDepartment string) (transport.DomainBreakdownResponse, error) {
	rows, err := s.repo.DomainBreakdown(ctx, scopeFor(actorRole, actorDepartment))
	if err != nil {
		return transport.DomainBreakdownResponse{}, err
	}

	buckets := make([]transport.DomainBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, transport.DomainBucket{Domain: row.Label, Count: row.Count})
	}
	return transport.DomainBreakdownResponse{DomainBreakdown: buckets, TotalDomains: len(buckets)}, nil
}

// DepartmentBreakdown groups complaints city-wide by department.
func (s *Service) DepartmentBreakdown(ctx context.Context) (transport.DepartmentBreakdownResponse, error) {
	rows, err := s.repo.DepartmentBreakdown(ctx)
	if err != nil {
		return transport.DepartmentBreakdownResponse{}, err
	}

	buckets := make([]transport.DepartmentBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, transport.DepartmentBucket{Department: row.Label, Count: row.Count})
	}
	return transport.DepartmentBreakdownResponse{DepartmentBreakdown: buckets, TotalDepartments: len(buckets)}, nil
}

// Trend returns the complaints time series for the requested period.
// Recognized periods are week, month, and year; anything else falls
// back to the last 30 days.
func (s *Service) Trend(ctx context.Context, actorRole, actorDepartment, period string) (transport.TrendResponse, error) {
	now := time.Now()
	var since time.Time
	bucket := "day"
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	case "year":
		since = now.AddDate(-1, 0, 0)
		bucket = "month"
	default:
		period = "month"
		since = now.AddDate(0, 0, -30)
	}

	rows, err := s.repo.Trend(ctx, scopeFor(actorRole, actorDepartment), since, bucket)
	if err != nil {
		return transport.TrendResponse{}, err
	}

	points := make([]transport.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, transport.TrendPoint{
			Date:     row.Date,
			Total:    row.Total,
			Resolved: row.Resolved,
			Pending:  row.Total - row.Resolved,
		})
	}
	return transport.TrendResponse{Period: period, Trend: points}, nil
}

// EmployeePerformance ranks department staff by resolution rate.
func (s *Service) EmployeePerformance(ctx context.Context) (transport.EmployeePerformanceResponse, error) {
	rows, err := s.repo.EmployeePerformance(ctx)
	if err != nil {
		return transport.EmployeePerformanceResponse{}, err
	}

	type ranked struct {
		entry transport.EmployeePerformanceEntry
		rate  float64
	}
	rankings := make([]ranked, 0, len(rows))
	for _, row := range rows {
		rate := 0.0
		if row.Assigned > 0 {
			rate = float64(row.Resolved) / float64(row.Assigned) * 100
		}
		rankings = append(rankings, ranked{
			rate: rate,
			entry: transport.EmployeePerformanceEntry{
				EmployeeID:             row.EmployeeID,
				Name:                   row.Name,
				Email:                  row.Email,
				Department:             row.Department,
				Role:                   row.Role,
				AssignedComplaints:     row.Assigned,
				ResolvedComplaints:     row.Resolved,
				ActiveComplaints:       row.Assigned - row.Resolved,
				ResolutionRate:         fmt.Sprintf("%.2f", rate),
				AvgResolutionTimeHours: row.AvgResolutionHours,
			},
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].rate != rankings[j].rate {
			return rankings[i].rate > rankings[j].rate
		}
		return rankings[i].entry.ResolvedComplaints > rankings[j].entry.ResolvedComplaints
	})

	entries := make([]transport.EmployeePerformanceEntry, 0, len(rankings))
	for _, r := range rankings {
		entries = append(entries, r.entry)
	}

	return transport.EmployeePerformanceResponse{Employees: entries, TotalEmployees: len(entries)}, nil
}

// StatusHistory builds a complaint's lifecycle timeline, annotating
// each entry with the time spent before the next update.
func (s *Service) StatusHistory(ctx context.Context, complaintID uuid.UUID) (transport.StatusHistoryResponse, error) {
	summary, err := s.repo.ComplaintSummary(ctx, complaintID)
	if err != nil {
		return transport.StatusHistoryResponse{}, err
	}
	entries, err := s.repo.Timeline(ctx, complaintID)
	if err != nil {
		return transport.StatusHistoryResponse{}, err
	}

	timeline := make([]transport.TimelineEntry, 0, len(entries))
	for i, entry := range entries {
		out := transport.TimelineEntry{
			ID:                 entry.ID,
			Status:             entry.Status,
			StatusDisplayName:  compdomain.DisplayName(compdomain.Status(entry.Status)),
			Remarks:            entry.Remarks,
			UpdatedAt:          entry.UpdatedAt,
			TimeSpentFormatted: "Current",
		}
		if entry.UpdatedByName != nil && entry.UpdatedByRole != nil {
			out.UpdatedBy = &transport.Updater{Name: *entry.UpdatedByName, Role: *entry.UpdatedByRole}
		}
		if i < len(entries)-1 {
			minutes := int(entries[i+1].UpdatedAt.Sub(entry.UpdatedAt).Minutes())
			out.TimeSpentInMinutes = &minutes
			out.TimeSpentFormatted = formatDuration(minutes)
		}
		timeline = append(timeline, out)
	}

	total := "In Progress"
	if summary.ClosedAt != nil {
		total = formatDuration(int(summary.ClosedAt.Sub(summary.CreatedAt).Minutes()))
	}

	return transport.StatusHistoryResponse{
		ComplaintID:         summary.ID,
		Title:               summary.Title,
		CurrentStatus:       summary.Status,
		CreatedBy:           transport.Creator{ID: summary.CreatorID, Name: summary.CreatorName},
		CreatedAt:           summary.CreatedAt,
		TotalResolutionTime: total,
		HasFeedback:         summary.HasFeedback,
		Timeline:            timeline,
	}, nil
}

// RecentChanges returns the newest status updates. Citizens only see
// updates on their own complaints.
func (s *Service) RecentChanges(ctx context.Context, actorRole string, actorID uuid.UUID, limit int) (transport.RecentChangesResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var citizenID *uuid.UUID
	if actorRole == identitydomain.RoleCitizen {
		citizenID = &actorID
	}

	changes, err := s.repo.RecentStatusChanges(ctx, citizenID, limit)
	if err != nil {
		return transport.RecentChangesResponse{}, err
	}

	now := time.Now()
	entries := make([]transport.RecentChangeEntry, 0, len(changes))
	for _, change := range changes {
		entry := transport.RecentChangeEntry{
			ID:                change.ID,
			ComplaintID:       change.ComplaintID,
			ComplaintTitle:    change.ComplaintTitle,
			Domain:            change.Domain,
			Category:          change.Category,
			Status:            change.Status,
			StatusDisplayName: compdomain.DisplayName(compdomain.Status(change.Status)),
			Remarks:           change.Remarks,
			UpdatedAt:         change.UpdatedAt,
			TimeAgo:           timeAgo(change.UpdatedAt, now),
		}
		if change.UpdatedByName != nil && change.UpdatedByRole != nil {
			entry.UpdatedBy = &transport.Updater{Name: *change.UpdatedByName, Role: *change.UpdatedByRole}
		}
		entries = append(entries, entry)
	}
	return transport.RecentChangesResponse{RecentUpdates: entries, Count: len(entries)}, nil
}

// MapData returns complaint pins for the heatmap, filtered and scoped
// to the actor's department when applicable.
func (s *Service) MapData(ctx context.Context, actorRole, actorDepartment string, req transport.MapRequest) (transport.MapResponse, error) {
	filter := repository.MapFilter{
		Scope:    scopeFor(actorRole, actorDepartment),
		Status:   req.Status,
		Domain:   req.Domain,
		Category: req.Category,
		Ward:     req.Ward,
		Zone:     req.Zone,
		District: req.District,
	}

	points, err := s.repo.MapPoints(ctx, filter)
	if err != nil {
		return transport.MapResponse{}, err
	}

	entries := make([]transport.MapPointEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, transport.MapPointEntry{
			ID:          p.ID,
			Title:       p.Title,
			Coordinates: transport.Coordinates{Lat: p.Latitude, Lng: p.Longitude},
			Status:      p.Status,
			Domain:      p.Domain,
			Category:    p.Category,
			Ward:        p.Ward,
			Zone:        p.Zone,
			District:    p.District,
			Location:    p.Location,
			CreatedAt:   p.CreatedAt,
		})
	}
	return transport.MapResponse{
		Points:      entries,
		TotalPoints: len(entries),
		Filters: transport.MapFilters{
			Status:   orAll(req.Status),
			Domain:   orAll(req.Domain),
			Category: orAll(req.Category),
			Ward:     orAll(req.Ward),
			Zone:     orAll(req.Zone),
			District: orAll(req.District),
		},
	}, nil
}

// SeverityZones buckets open complaints into a coordinate grid and
// grades each cell by complaint density.
func (s *Service) SeverityZones(ctx context.Context, gridSize float64) (transport.SeverityZonesResponse, error) {
	if gridSize <= 0 {
		gridSize = defaultGridSize
	}

	points, err := s.repo.OpenGeoPoints(ctx)
	if err != nil {
		return transport.SeverityZonesResponse{}, err
	}

	zones := buildSeverityZones(points, gridSize)

	var dist transport.SeverityDistribution
	for _, zone := range zones {
		switch zone.Severity {
		case "green":
			dist.Green++
		case "yellow":
			dist.Yellow++
		case "orange":
			dist.Orange++
		case "red":
			dist.Red++
		}
	}

	return transport.SeverityZonesResponse{
		Zones:                zones,
		TotalZones:           len(zones),
		SeverityDistribution: dist,
		GridSizeKm:           gridSize * 111,
	}, nil
}

// buildSeverityZones snaps each point to its grid cell and grades the
// cells. Zones come back densest first.
func buildSeverityZones(points []repository.GeoPoint, gridSize float64) []transport.SeverityZone {
	type cell struct {
		lat, lng float64
		count    int
	}
	cells := make(map[string]*cell)
	for _, p := range points {
		gridLat := math.Floor(p.Latitude/gridSize) * gridSize
		gridLng := math.Floor(p.Longitude/gridSize) * gridSize
		key := fmt.Sprintf("%.4f,%.4f", gridLat, gridLng)
		if c, ok := cells[key]; ok {
			c.count++
		} else {
			cells[key] = &cell{lat: gridLat, lng: gridLng, count: 1}
		}
	}

	zones := make([]transport.SeverityZone, 0, len(cells))
	for _, c := range cells {
		severity, level := gradeSeverity(c.count)
		radius := c.count * 50
		if radius > 500 {
			radius = 500
		}
		zones = append(zones, transport.SeverityZone{
			Coordinates: transport.Coordinates{
				Lat: c.lat + gridSize/2,
				Lng: c.lng + gridSize/2,
			},
			ComplaintCount: c.count,
			Severity:       severity,
			SeverityLevel:  level,
			Radius:         radius,
		})
	}
	sort.Slice(zones, func(i, j int) bool {
		return zones[i].ComplaintCount > zones[j].ComplaintCount
	})
	return zones
}

func gradeSeverity(count int) (string, int) {
	switch {
	case count <= 2:
		return "green", 1
	case count <= 5:
		return "yellow", 2
	case count <= 10:
		return "orange", 3
	default:
		return "red", 4
	}
}

// AreaStats groups complaint outcomes by ward, zone, or district.
func (s *Service) AreaStats(ctx context.Context, groupBy string) (transport.AreaStatsResponse, error) {
	if groupBy == "" {
		groupBy = "ward"
	}

	rows, err := s.repo.AreaRows(ctx, groupBy)
	if err != nil {
		return transport.AreaStatsResponse{}, err
	}

	type tally struct {
		total, resolved, closed int
	}
	tallies := make(map[string]*tally)
	order := make([]string, 0)
	for _, row := range rows {
		t, ok := tallies[row.Area]
		if !ok {
			t = &tally{}
			tallies[row.Area] = t
			order = append(order, row.Area)
		}
		t.total++
		switch compdomain.Status(row.Status) {
		case compdomain.StatusResolved:
			t.resolved++
		case compdomain.StatusClosed:
			t.closed++
		}
	}

	stats := make([]transport.AreaStatEntry, 0, len(order))
	for _, area := range order {
		t := tallies[area]
		done := t.resolved + t.closed
		rate := 0.0
		if t.total > 0 {
			rate = float64(done) / float64(t.total) * 100
		}
		stats = append(stats, transport.AreaStatEntry{
			Area:           area,
			Total:          t.total,
			Active:         t.total - t.closed,
			Resolved:       t.resolved,
			Closed:         t.closed,
			ResolutionRate: fmt.Sprintf("%.2f%%", rate),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})

	return transport.AreaStatsResponse{
		GroupedBy:  groupBy,
		Statistics: stats,
		TotalAreas: len(stats),
	}, nil
}

// formatDuration renders minutes as the largest sensible unit.
func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
	}
	if minutes < 1440 {
		hours := minutes / 60
		rem := minutes % 60
		out := fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
		if rem > 0 {
			out += fmt.Sprintf(" %d min", rem)
		}
		return out
	}
	days := minutes / 1440
	rem := (minutes % 1440) / 60
	out := fmt.Sprintf("%d %s", days, plural(days, "day"))
	if rem > 0 {
		out += fmt.Sprintf(" %d hr", rem)
	}
	return out
}

// formatHours renders hours as days once past a full day.
func formatHours(hours int) string {
	if hours < 24 {
		return fmt.Sprintf("%d hours", hours)
	}
	days := hours / 24
	rem := hours % 24
	out := fmt.Sprintf("%d %s", days, plural(days, "day"))
	if rem > 0 {
		out += fmt.Sprintf(" %dh", rem)
	}
	return out
}

// timeAgo renders how long ago t was relative to now.
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		m := int(diff.Minutes())
		return fmt.Sprintf("%d %s ago", m, plural(m, "minute"))
	case diff < 24*time.Hour:
		h := int(diff.Hours())
		return fmt.Sprintf("%d %s ago", h, plural(h, "hour"))
	default:
		d := int(diff.Hours() / 24)
		return fmt.Sprintf("%d %s ago", d, plural(d, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
