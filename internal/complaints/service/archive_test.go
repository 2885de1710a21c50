package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	identity "citizenconnect_backend/internal/identity/domain"
)

func TestArchiveScopesCitizenToOwnComplaints(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)
	citizenID := uuid.New()

	_, err := svc.Archive(context.Background(), Actor{ID: citizenID, Role: identity.RoleCitizen}, transport.ArchiveRequest{})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if repo.archiveFilter.UserID == nil || *repo.archiveFilter.UserID != citizenID {
		t.Errorf("archive filter UserID = %v, want %s", repo.archiveFilter.UserID, citizenID)
	}
}

func TestArchiveScopesDepartmentStaff(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	actor := Actor{ID: uuid.New(), Role: identity.RoleDepartmentEmployee, Department: "Water Supply"}
	_, err := svc.Archive(context.Background(), actor, transport.ArchiveRequest{Department: "Roads"})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if repo.archiveFilter.Department != "Water Supply" {
		t.Errorf("archive filter department = %q, want the caller's own", repo.archiveFilter.Department)
	}
	if repo.archiveFilter.UserID != nil {
		t.Error("department staff should not be scoped to their own complaints")
	}
}

func TestArchiveIgnoresScopingForCityRoles(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	actor := Actor{ID: uuid.New(), Role: identity.RoleCityAdmin}
	_, err := svc.Archive(context.Background(), actor, transport.ArchiveRequest{Year: 2025})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if repo.archiveFilter.UserID != nil || repo.archiveFilter.Department != "" {
		t.Error("city-level roles should see the whole archive")
	}
	if repo.archiveFilter.Year != 2025 {
		t.Errorf("archive filter year = %d, want 2025", repo.archiveFilter.Year)
	}
}

func TestArchivePaginationDefaultsAndTotals(t *testing.T) {
	repo := newFakeRepo()
	repo.archivePage = repository.ArchivePage{TotalCount: 41}
	svc, _ := newService(repo)

	result, err := svc.Archive(context.Background(), Actor{ID: uuid.New(), Role: identity.RoleMayor}, transport.ArchiveRequest{})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if repo.archiveFilter.Page != 1 || repo.archiveFilter.Limit != 20 {
		t.Errorf("filter page/limit = %d/%d, want defaults 1/20", repo.archiveFilter.Page, repo.archiveFilter.Limit)
	}
	if result.Pagination.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3 for 41 rows at 20 per page", result.Pagination.TotalPages)
	}
	if result.Pagination.TotalCount != 41 {
		t.Errorf("total count = %d, want 41", result.Pagination.TotalCount)
	}
}

func TestArchiveResolutionTimes(t *testing.T) {
	created := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	resolved := created.Add(30 * time.Hour)

	repo := newFakeRepo()
	repo.archivePage = repository.ArchivePage{
		Complaints: []repository.Complaint{
			{ID: uuid.New(), Status: domain.StatusClosed, CreatedAt: created, ResolvedAt: &resolved},
			{ID: uuid.New(), Status: domain.StatusClosed, CreatedAt: created},
		},
		TotalCount: 2,
	}
	svc, _ := newService(repo)

	result, err := svc.Archive(context.Background(), Actor{ID: uuid.New(), Role: identity.RoleMayor}, transport.ArchiveRequest{})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	first := result.Complaints[0]
	if first.ResolutionTimeHours == nil || *first.ResolutionTimeHours != 30 {
		t.Errorf("resolution hours = %v, want 30", first.ResolutionTimeHours)
	}
	if first.ResolutionTimeFormatted != "1 day 6h" {
		t.Errorf("resolution formatted = %q, want 1 day 6h", first.ResolutionTimeFormatted)
	}

	second := result.Complaints[1]
	if second.ResolutionTimeHours != nil {
		t.Errorf("resolution hours without resolved timestamp = %v, want nil", second.ResolutionTimeHours)
	}
	if second.ResolutionTimeFormatted != "N/A" {
		t.Errorf("resolution formatted = %q, want N/A", second.ResolutionTimeFormatted)
	}
}

func TestArchiveStatistics(t *testing.T) {
	repo := newFakeRepo()
	repo.archiveStats = repository.ArchiveStats{
		TotalArchived:      12,
		Yearly:             []repository.YearCount{{Year: 2026, Count: 7}, {Year: 2025, Count: 5}},
		AvgResolutionHours: 52,
	}
	svc, _ := newService(repo)

	actor := Actor{ID: uuid.New(), Role: identity.RoleDepartmentAdmin, Department: "Sanitation"}
	result, err := svc.ArchiveStatistics(context.Background(), actor)
	if err != nil {
		t.Fatalf("ArchiveStatistics: %v", err)
	}

	if repo.archiveFilter.Department != "Sanitation" {
		t.Errorf("stats filter department = %q, want Sanitation", repo.archiveFilter.Department)
	}
	if result.TotalArchived != 12 {
		t.Errorf("total archived = %d, want 12", result.TotalArchived)
	}
	if len(result.YearlyBreakdown) != 2 || result.YearlyBreakdown[0].Year != 2026 {
		t.Errorf("yearly breakdown = %+v, want newest year first", result.YearlyBreakdown)
	}
	if result.AverageResolutionTimeFormatted != "2 days 4h" {
		t.Errorf("average formatted = %q, want 2 days 4h", result.AverageResolutionTimeFormatted)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours int
		want  string
	}{
		{5, "5 hours"},
		{23, "23 hours"},
		{24, "1 day"},
		{30, "1 day 6h"},
		{48, "2 days"},
		{52, "2 days 4h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.hours); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
