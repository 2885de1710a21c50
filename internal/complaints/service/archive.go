package service

import (
	"context"
	"fmt"

	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	identity "citizenconnect_backend/internal/identity/domain"
)

// Archive lists Resolved and Closed complaints with pagination. Citizens
// see their own closed-out complaints, department staff their
// department's, and city-level roles the whole archive.
func (s *Service) Archive(ctx context.Context, actor Actor, req transport.ArchiveRequest) (transport.ArchiveListResponse, error) {
	filter := repository.ArchiveFilter{
		Domain:     req.Domain,
		Category:   req.Category,
		Department: req.Department,
		Query:      req.Query,
		Year:       req.Year,
		Page:       req.Page,
		Limit:      req.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	scopeArchive(actor, &filter)

	page, err := s.repo.ListArchived(ctx, filter)
	if err != nil {
		return transport.ArchiveListResponse{}, err
	}

	out := make([]transport.ArchivedComplaintResponse, len(page.Complaints))
	for i, c := range page.Complaints {
		out[i] = toArchivedResponse(c)
	}

	return transport.ArchiveListResponse{
		Complaints: out,
		Pagination: transport.Pagination{
			CurrentPage: filter.Page,
			TotalPages:  (page.TotalCount + filter.Limit - 1) / filter.Limit,
			TotalCount:  page.TotalCount,
			Limit:       filter.Limit,
		},
	}, nil
}

// ArchiveStatistics summarizes the caller's slice of the archive: total
// count, per-year breakdown, and average resolution time.
func (s *Service) ArchiveStatistics(ctx context.Context, actor Actor) (transport.ArchiveStatsResponse, error) {
	var filter repository.ArchiveFilter
	scopeArchive(actor, &filter)

	stats, err := s.repo.ArchiveStatistics(ctx, filter)
	if err != nil {
		return transport.ArchiveStatsResponse{}, err
	}

	yearly := make([]transport.ArchiveYearCount, len(stats.Yearly))
	for i, yc := range stats.Yearly {
		yearly[i] = transport.ArchiveYearCount{Year: yc.Year, Count: yc.Count}
	}

	return transport.ArchiveStatsResponse{
		TotalArchived:                  stats.TotalArchived,
		YearlyBreakdown:                yearly,
		AverageResolutionTimeHours:     stats.AvgResolutionHours,
		AverageResolutionTimeFormatted: formatHours(stats.AvgResolutionHours),
	}, nil
}

func scopeArchive(actor Actor, filter *repository.ArchiveFilter) {
	switch actor.Role {
	case identity.RoleCitizen:
		userID := actor.ID
		filter.UserID = &userID
	case identity.RoleDepartmentAdmin, identity.RoleDepartmentEmployee:
		filter.Department = actor.Department
	}
}

func toArchivedResponse(c repository.Complaint) transport.ArchivedComplaintResponse {
	resp := transport.ArchivedComplaintResponse{
		ComplaintResponse:       toResponse(c),
		ResolutionTimeFormatted: "N/A",
	}
	if c.ResolvedAt != nil {
		hours := int(c.ResolvedAt.Sub(c.CreatedAt).Hours())
		resp.ResolutionTimeHours = &hours
		resp.ResolutionTimeFormatted = formatHours(hours)
	}
	return resp
}

// formatHours renders whole hours as "N hours" under a day, and days
// with the hour remainder beyond that.
func formatHours(hours int) string {
	if hours < 24 {
		return fmt.Sprintf("%d hours", hours)
	}
	days := hours / 24
	out := fmt.Sprintf("%d day", days)
	if days != 1 {
		out += "s"
	}
	if rem := hours % 24; rem > 0 {
		out += fmt.Sprintf(" %dh", rem)
	}
	return out
}
