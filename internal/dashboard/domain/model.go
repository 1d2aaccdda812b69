package domain

import "time"

// Analytics is the aggregate snapshot served to the dashboard.
type Analytics struct {
	TotalInterviews     int          `json:"totalInterviews"`
	CompletedInterviews int          `json:"completedInterviews"`
	ActiveProjects      int          `json:"activeProjects"`
	EngagedClients      int          `json:"engagedClients"`
	InterviewTrend      []TrendPoint `json:"interviewTrend"`
}

// TrendPoint counts interviews held on a single day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Filter narrows analytics to one client and/or a date window. From and
// To apply to the interview date, inclusive.
type Filter struct {
	ClientID string
	From     *time.Time
	To       *time.Time
}

// Empty reports whether the filter selects everything; only unfiltered
// snapshots are cached.
func (f Filter) Empty() bool {
	return f.ClientID == "" && f.From == nil && f.To == nil
}
