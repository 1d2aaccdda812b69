package domain

import "time"

// Interview is a scheduled discovery session with client stakeholders.
type Interview struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Date                time.Time `json:"date"`
	GDriveID            *string   `json:"gdrive_id,omitempty"`
	RequestDistillation *bool     `json:"request_distillation,omitempty"`
	RequestCoaching     *bool     `json:"request_coaching,omitempty"`
	RequestUserStories  *bool     `json:"request_user_stories,omitempty"`
	ClientID            string    `json:"client_id"`
	ProjectID           string    `json:"project_id"`
	StakeholderIDs      []string  `json:"stakeholder_ids,omitempty"`
	CreatedBy           *string   `json:"created_by,omitempty"`
	UpdatedBy           *string   `json:"updated_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsDeleted           bool      `json:"is_deleted"`
}

// Completed reports whether the interview has a recording and all three
// processing requests set.
func (i Interview) Completed() bool {
	return i.GDriveID != nil && *i.GDriveID != "" &&
		i.RequestDistillation != nil && *i.RequestDistillation &&
		i.RequestCoaching != nil && *i.RequestCoaching &&
		i.RequestUserStories != nil && *i.RequestUserStories
}

type CreateInterview struct {
	Name                string
	Date                time.Time
	GDriveID            *string
	RequestDistillation *bool
	RequestCoaching     *bool
	RequestUserStories  *bool
	ClientID            string
	ProjectID           string
	StakeholderIDs      []string
}

type UpdateInterview struct {
	Name                *string
	Date                *time.Time
	GDriveID            *string
	RequestDistillation *bool
	RequestCoaching     *bool
	RequestUserStories  *bool
	StakeholderIDs      []string
}
