// Package service implements feedback business rules: only the
// complaint owner may rate, and only once the complaint reached
// Resolved or Closed.
package service

import (
	"context"

	"github.com/google/uuid"

	comprepo "citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/events"
	"citizenconnect_backend/internal/feedback/repository"
	"citizenconnect_backend/internal/feedback/transport"
	identitydomain "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
	"citizenconnect_backend/platform/logger"
)

// ComplaintReader looks up complaints for feedback eligibility checks.
type ComplaintReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (comprepo.Complaint, error)
}

// Service handles feedback operations.
type Service struct {
	repo       repository.Repository
	complaints ComplaintReader
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new feedback service.
func New(repo repository.Repository, complaints ComplaintReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, complaints: complaints, bus: bus, log: log}
}

// Submit records a citizen's rating of their handled complaint.
func (s *Service) Submit(ctx context.Context, userID, complaintID uuid.UUID, req transport.SubmitFeedbackRequest) (transport.FeedbackResponse, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	if complaint.UserID != userID {
		return transport.FeedbackResponse{}, apperr.Forbidden("you can only give feedback for your own complaints")
	}
	if complaint.Status != "Resolved" && complaint.Status != "Closed" {
		return transport.FeedbackResponse{}, apperr.Validation("feedback can only be submitted for Resolved or Closed complaints")
	}

	wasResolved := true
	if req.WasResolved != nil {
		wasResolved = *req.WasResolved
	}

	feedback, err := s.repo.Create(ctx, repository.CreateParams{
		ComplaintID: complaintID,
		UserID:      userID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		WasResolved: wasResolved,
	})
	if err != nil {
		return transport.FeedbackResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.FeedbackSubmitted{
			BaseEvent:   events.NewBaseEvent(),
			ComplaintID: complaintID,
			CitizenID:   userID,
			AssigneeID:  complaint.AssignedToID,
			Rating:      feedback.Rating,
		})
	}

	return toResponse(feedback), nil
}

// Update modifies the citizen's existing feedback.
func (s *Service) Update(ctx context.Context, userID, complaintID uuid.UUID, req transport.UpdateFeedbackRequest) (transport.FeedbackResponse, error) {
	feedback, err := s.repo.Update(ctx, complaintID, userID, repository.UpdateParams{
		Rating:      req.Rating,
		Comment:     req.Comment,
		WasResolved: req.WasResolved,
	})
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	return toResponse(feedback), nil
}

// Delete removes the citizen's feedback.
func (s *Service) Delete(ctx context.Context, userID, complaintID uuid.UUID) error {
	return s.repo.Delete(ctx, complaintID, userID)
}

// ForComplaint retrieves the feedback left on a complaint.
func (s *Service) ForComplaint(ctx context.Context, complaintID uuid.UUID) (transport.FeedbackResponse, error) {
	feedback, err := s.repo.GetByComplaint(ctx, complaintID)
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	return toResponse(feedback), nil
}

// ListAll retrieves every feedback entry for the admin panel.
func (s *Service) ListAll(ctx context.Context, actorRole string) (transport.FeedbackListResponse, error) {
	if !identitydomain.IsCityLevelRole(actorRole) {
		return transport.FeedbackListResponse{}, apperr.Forbidden("not authorized to view all feedback")
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return transport.FeedbackListResponse{}, err
	}

	resp := transport.FeedbackListResponse{
		Count:     len(items),
		Feedbacks: make([]transport.FeedbackResponse, 0, len(items)),
	}
	for _, f := range items {
		resp.Feedbacks = append(resp.Feedbacks, toResponse(f))
	}
	return resp, nil
}

// RatingStats aggregates ratings for complaints matching the filter.
func (s *Service) RatingStats(ctx context.Context, req transport.RatingFilterRequest) (transport.RatingStatsResponse, error) {
	stats, err := s.repo.RatingStats(ctx, repository.RatingFilter{
		Department: req.Department,
		Category:   req.Category,
		Domain:     req.Domain,
	})
	if err != nil {
		return transport.RatingStatsResponse{}, err
	}

	return transport.RatingStatsResponse{
		AverageRating:    stats.AverageRating,
		TotalFeedbacks:   stats.TotalFeedbacks,
		Distribution:     stats.Distribution,
		SatisfactionRate: stats.SatisfactionRate,
		Filters: transport.AppliedFilters{
			Department: orAll(req.Department),
			Category:   orAll(req.Category),
			Domain:     orAll(req.Domain),
		},
	}, nil
}

// TopRatedDepartments ranks departments by citizen satisfaction.
func (s *Service) TopRatedDepartments(ctx context.Context) (transport.TopDepartmentsResponse, error) {
	scores, err := s.repo.TopRatedDepartments(ctx)
	if err != nil {
		return transport.TopDepartmentsResponse{}, err
	}

	resp := transport.TopDepartmentsResponse{
		TopRatedDepartments: make([]transport.DepartmentScoreResponse, 0, len(scores)),
	}
	for _, score := range scores {
		resp.TopRatedDepartments = append(resp.TopRatedDepartments, transport.DepartmentScoreResponse{
			Department:     score.Department,
			AverageRating:  score.AverageRating,
			TotalFeedbacks: score.TotalFeedbacks,
		})
	}
	return resp, nil
}

func toResponse(f repository.Feedback) transport.FeedbackResponse {
	return transport.FeedbackResponse{
		ID:          f.ID,
		ComplaintID: f.ComplaintID,
		UserID:      f.UserID,
		Rating:      f.Rating,
		Comment:     f.Comment,
		WasResolved: f.WasResolved,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func orAll(v string) string {
	if v == "" {
		return "All"
	}
	return v
}
