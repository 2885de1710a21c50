package transport

import (
	"time"

	"github.com/google/uuid"
)

// DashboardResponse is the headline statistics panel.
type DashboardResponse struct {
	Overview                       Overview        `json:"overview"`
	StatusBreakdown                StatusBreakdown `json:"statusBreakdown"`
	AverageResolutionTimeHours     int             `json:"averageResolutionTimeHours"`
	AverageResolutionTimeFormatted string          `json:"averageResolutionTimeFormatted"`
}

// Overview is the complaint volume summary.
type Overview struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Closed    int `json:"closed"`
	TodayNew  int `json:"todayNew"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

// StatusBreakdown counts complaints per lifecycle state.
type StatusBreakdown struct {
	Raised       int `json:"raised"`
	Acknowledged int `json:"acknowledged"`
	InProgress   int `json:"inProgress"`
	Resolved     int `json:"resolved"`
	Closed       int `json:"closed"`
}

// CategoryBucket is one category's complaint count.
type CategoryBucket struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryBreakdownResponse groups complaints by category.
type CategoryBreakdownResponse struct {
	CategoryBreakdown []CategoryBucket `json:"categoryBreakdown"`
	TotalCategories   int              `json:"totalCategories"`
}

// DomainBucket is one domain's complaint count.
type DomainBucket struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// DomainBreakdownResponse groups complaints by domain.
type DomainBreakdownResponse struct {
	DomainBreakdown []DomainBucket `json:"domainBreakdown"`
	TotalDomains    int            `json:"totalDomains"`
}

// DepartmentBucket is one department's complaint count.
type DepartmentBucket struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// DepartmentBreakdownResponse groups complaints by department.
type DepartmentBreakdownResponse struct {
	DepartmentBreakdown []DepartmentBucket `json:"departmentBreakdown"`
	TotalDepartments    int                `json:"totalDepartments"`
}

// TrendRequest selects a trend window.
type TrendRequest struct {
	Period string `form:"period"`
}

// TrendPoint is one time bucket of the complaints trend.
type TrendPoint struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Resolved int    `json:"resolved"`
	Pending  int    `json:"pending"`
}

// TrendResponse is the complaints time series.
type TrendResponse struct {
	Period string       `json:"period"`
	Trend  []TrendPoint `json:"trend"`
}

// EmployeePerformanceEntry aggregates one employee's outcomes.
type EmployeePerformanceEntry struct {
	EmployeeID             uuid.UUID `json:"employeeId"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Department             *string   `json:"department,omitempty"`
	Role                   string    `json:"role"`
	AssignedComplaints     int       `json:"assignedComplaints"`
	ResolvedComplaints     int       `json:"resolvedComplaints"`
	ActiveComplaints       int       `json:"activeComplaints"`
	ResolutionRate         string    `json:"resolutionRate"`
	AvgResolutionTimeHours int       `json:"avgResolutionTimeHours"`
}

// EmployeePerformanceResponse ranks employees by resolution rate.
type EmployeePerformanceResponse struct {
	Employees      []EmployeePerformanceEntry `json:"employees"`
	TotalEmployees int                        `json:"totalEmployees"`
}

// TimelineEntry is one status update with dwell time annotations.
type TimelineEntry struct {
	ID                 uuid.UUID  `json:"id"`
	Status             string     `json:"status"`
	StatusDisplayName  string     `json:"statusDisplayName"`
	Remarks            *string    `json:"remarks,omitempty"`
	UpdatedBy          *Updater   `json:"updatedBy,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	TimeSpentInMinutes *int       `json:"timeSpentInMinutes,omitempty"`
	TimeSpentFormatted string     `json:"timeSpentFormatted"`
}

// Updater identifies who recorded a status update.
type Updater struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Creator identifies who raised a complaint.
type Creator struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// StatusHistoryResponse is a complaint's full lifecycle timeline.
type StatusHistoryResponse struct {
	ComplaintID         uuid.UUID       `json:"complaintId"`
	Title               string          `json:"title"`
	CurrentStatus       string          `json:"currentStatus"`
	CreatedBy           Creator         `json:"createdBy"`
	CreatedAt           time.Time       `json:"createdAt"`
	TotalResolutionTime string          `json:"totalResolutionTime"`
	HasFeedback         bool            `json:"hasFeedback"`
	Timeline            []TimelineEntry `json:"timeline"`
}

// RecentChangeEntry is one entry of the activity feed.
type RecentChangeEntry struct {
	ID                uuid.UUID `json:"id"`
	ComplaintID       uuid.UUID `json:"complaintId"`
	ComplaintTitle    string    `json:"complaintTitle"`
	Domain            string    `json:"domain"`
	Category          string    `json:"category"`
	Status            string    `json:"status"`
	StatusDisplayName string    `json:"statusDisplayName"`
	Remarks           *string   `json:"remarks,omitempty"`
	UpdatedBy         *Updater  `json:"updatedBy,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
	TimeAgo           string    `json:"timeAgo"`
}

// RecentChangesResponse is the activity feed.
type RecentChangesResponse struct {
	RecentUpdates []RecentChangeEntry `json:"recentUpdates"`
	Count         int                 `json:"count"`
}

// MapRequest narrows the map point query.
type MapRequest struct {
	Status   string `form:"status"`
	Domain   string `form:"domain"`
	Category string `form:"category"`
	Ward     string `form:"ward"`
	Zone     string `form:"zone"`
	District string `form:"district"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapPointEntry is one complaint pin on the map.
type MapPointEntry struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Coordinates Coordinates `json:"coordinates"`
	Status      string      `json:"status"`
	Domain      string      `json:"domain"`
	Category    string      `json:"category"`
	Ward        *string     `json:"ward,omitempty"`
	Zone        *string     `json:"zone,omitempty"`
	District    *string     `json:"district,omitempty"`
	Location    *string     `json:"location,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// MapFilters echoes the filters applied to a map query.
type MapFilters struct {
	Status   string `json:"status"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Ward     string `json:"ward"`
	Zone     string `json:"zone"`
	District string `json:"district"`
}

// MapResponse is the set of complaint pins for rendering.
type MapResponse struct {
	Points      []MapPointEntry `json:"points"`
	TotalPoints int             `json:"totalPoints"`
	Filters     MapFilters      `json:"filters"`
}

// SeverityZone is one grid cell of complaint density.
type SeverityZone struct {
	Coordinates    Coordinates `json:"coordinates"`
	ComplaintCount int         `json:"complaintCount"`
	Severity       string      `json:"severity"`
	SeverityLevel  int         `json:"severityLevel"`
	Radius         int         `json:"radius"`
}

// SeverityDistribution counts zones per severity band.
type SeverityDistribution struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Orange int `json:"orange"`
	Red    int `json:"red"`
}

// SeverityZonesResponse is the complaint density overlay.
type SeverityZonesResponse struct {
	Zones                []SeverityZone       `json:"zones"`
	TotalZones           int                  `json:"totalZones"`
	SeverityDistribution SeverityDistribution `json:"severityDistribution"`
	GridSizeKm           float64              `json:"gridSizeKm"`
}

// AreaStatEntry is one area's complaint outcomes.
type AreaStatEntry struct {
	Area           string `json:"area"`
	Total          int    `json:"total"`
	Active         int    `json:"active"`
	Resolved       int    `json:"resolved"`
	Closed         int    `json:"closed"`
	ResolutionRate string `json:"resolutionRate"`
}

// AreaStatsResponse groups complaint outcomes by area.
type AreaStatsResponse struct {
	GroupedBy  string          `json:"groupedBy"`
	Statistics []AreaStatEntry `json:"statistics"`
	TotalAreas int             `json:"totalAreas"`
}
