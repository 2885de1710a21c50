package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitFeedbackRequest is the payload for rating a handled complaint.
type SubmitFeedbackRequest struct {
	Rating      int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment     *string `json:"comment" validate:"omitempty,max=2000"`
	WasResolved *bool   `json:"wasResolved"`
}

// UpdateFeedbackRequest is a partial feedback update.
type UpdateFeedbackRequest struct {
	Rating      *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment     *string `json:"comment" validate:"omitempty,max=2000"`
	WasResolved *bool   `json:"wasResolved"`
}

// RatingFilterRequest narrows rating aggregates.
type RatingFilterRequest struct {
	Department string `form:"department"`
	Category   string `form:"category"`
	Domain     string `form:"domain"`
}

// FeedbackResponse is a feedback entry as exposed over the API.
type FeedbackResponse struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaintId"`
	UserID      uuid.UUID `json:"userId"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	WasResolved bool      `json:"wasResolved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FeedbackListResponse wraps an administrative feedback listing.
type FeedbackListResponse struct {
	Count     int                `json:"count"`
	Feedbacks []FeedbackResponse `json:"feedbacks"`
}

// RatingStatsResponse summarizes ratings matching a filter.
type RatingStatsResponse struct {
	AverageRating    float64        `json:"averageRating"`
	TotalFeedbacks   int            `json:"totalFeedbacks"`
	Distribution     map[int]int    `json:"ratingDistribution"`
	SatisfactionRate float64        `json:"satisfactionRate"`
	Filters          AppliedFilters `json:"filters"`
}

// AppliedFilters echoes the filter used for a rating aggregate.
type AppliedFilters struct {
	Department string `json:"department"`
	Category   string `json:"category"`
	Domain     string `json:"domain"`
}

// DepartmentScoreResponse is a department's average rating.
type DepartmentScoreResponse struct {
	Department     string  `json:"department"`
	AverageRating  float64 `json:"averageRating"`
	TotalFeedbacks int     `json:"totalFeedbacks"`
}

// TopDepartmentsResponse ranks departments by citizen satisfaction.
type TopDepartmentsResponse struct {
	TopRatedDepartments []DepartmentScoreResponse `json:"topRatedDepartments"`
}
