// Package domain holds the configuration version model. Configurations are
// copy-on-write: updates never mutate a row, they retire it and append the
// next version in the same scope (a project, or the global scope when
// project_id is null).
package domain

import "time"

// Payload is the versioned configuration document stored as jsonb. The
// client/project fields mirror the owning project at the time the version
// was written; global configurations keep them empty.
type Payload struct {
	Client                       string            `json:"client"`
	ClientCode                   string            `json:"client_code"`
	ProjectName                  string            `json:"project_name"`
	ProjectDesc                  string            `json:"project_desc"`
	Example1                     string            `json:"example1,omitempty"`
	Example2                     string            `json:"example2,omitempty"`
	Example3                     string            `json:"example3,omitempty"`
	CategoriesFlag               string            `json:"categories_flag"`
	USCategories                 map[string]string `json:"us_categories"`
	CustomContext                string            `json:"custom_context,omitempty"`
	EmailConfirmation            []string          `json:"email_confirmation"`
	InterviewTrackerGDriveID     string            `json:"interview_tracker_gdrive_id"`
	InterviewRepositoryGDriveURL string            `json:"interview_repository_gdrive_url,omitempty"`
	GlobalRepositoryGDriveURL    string            `json:"global_repository_gdrive_url,omitempty"`
	OutputGDriveURL              string            `json:"output_gdrive_url,omitempty"`
	LoggingOutputURL             string            `json:"logging_output_url,omitempty"`
}

// PayloadInput carries caller overrides for payload fields. Nil means
// "keep the default on create, keep the prior value on update".
type PayloadInput struct {
	Example1                     *string            `json:"example1"`
	Example2                     *string            `json:"example2"`
	Example3                     *string            `json:"example3"`
	CategoriesFlag               *string            `json:"categories_flag"`
	USCategories                 *map[string]string `json:"us_categories"`
	CustomContext                *string            `json:"custom_context"`
	EmailConfirmation            *[]string          `json:"email_confirmation"`
	InterviewTrackerGDriveID     *string            `json:"interview_tracker_gdrive_id"`
	InterviewRepositoryGDriveURL *string            `json:"interview_repository_gdrive_url"`
	GlobalRepositoryGDriveURL    *string            `json:"global_repository_gdrive_url"`
	OutputGDriveURL              *string            `json:"output_gdrive_url"`
	LoggingOutputURL             *string            `json:"logging_output_url"`
}

type Config struct {
	ID            string    `json:"id"`
	ProjectID     *string   `json:"project_id"`
	Version       int       `json:"version"`
	IsLatest      bool      `json:"is_latest"`
	Payload       Payload   `json:"config"`
	ChangeSummary *string   `json:"change_summary,omitempty"`
	CreatedBy     *string   `json:"created_by,omitempty"`
	UpdatedBy     *string   `json:"updated_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsDeleted     bool      `json:"is_deleted"`

	// Hydrated on reads, never written.
	ProjectName    *string `json:"project_name,omitempty"`
	CreatedByEmail *string `json:"created_by_email,omitempty"`
	UpdatedByEmail *string `json:"updated_by_email,omitempty"`
}

// Global reports whether the configuration belongs to the global scope.
func (c *Config) Global() bool { return c.ProjectID == nil }

type CreateConfig struct {
	ProjectID     *string `json:"project_id"`
	ChangeSummary *string `json:"change_summary"`
	PayloadInput
}

type UpdateConfig struct {
	ProjectID     *string `json:"project_id"`
	ChangeSummary *string `json:"change_summary"`
	PayloadInput
}

// ListFilter narrows getAllPaginated. ProjectID follows the query
// convention that the literal string "null" selects global configurations.
type ListFilter struct {
	ProjectID *string
	Version   *int
	IsLatest  *bool
	CreatedBy *string
}

type Sort struct {
	Field string
	Order string
}

type Page struct {
	Items       []*Config `json:"items"`
	Total       int       `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// DefaultPayload is the template every new lineage starts from; caller
// overrides win field by field.
func DefaultPayload() Payload {
	return Payload{
		Example1:       "As a Sr Analyst of Marketing Activations I need an integrated data management system connecting Master Data Management, Brand Marketing, and Sales so that I can enhance operational efficiency and enable seamless cross-functional collaboration",
		Example2:       "As a Executive Creative Director I need AI-powered performance prediction and real-time content adaptation so that I can optimize creative assets dynamically and improve campaign effectiveness",
		Example3:       "As a CRM and Digital Strategy Lead I need to ensure consumer data is accurately captured, centralized, and enriched with key attributes so that activation campaigns can scale efficiently across platforms and channels",
		CategoriesFlag: "Y",
		USCategories: map[string]string{
			"MarTech":         "User stories related to the marketing technology platforms, tools, and systems used to enable Purinas marketing capabilities",
			"Data Strategy":   "User stories related to the collection, management, and activation of consumer data",
			"Measurement":     "User stories related to tracking, analyzing, and reporting data to assess campaign performance and effectiveness across paid, earned, shared, and owned media",
			"Taxonomy":        "User stories related data classification, structure, and naming conventions to enable cross-system and channel tracking",
			"Adverity":        "User stories related to Adverities capabilities and integrations",
			"Data Governance": "User stories related to the policies, procedures, and standards for managing data integrity, security, quality, and availability",
			"Ways of Working": "User stories related to processes, methodologies, and collaboration practices within the team or organization",
			"DAM":             "User stories related to Digital Asset Management systems and processes",
			"Workflow":        "User stories related to the automation, optimization, and management of business processes and tasks using a workflow management platform",
		},
		EmailConfirmation: []string{},
	}
}

// Merge overlays non-nil override fields onto base and returns the result.
// Fields left nil in the override keep the base value.
func Merge(base Payload, in PayloadInput) Payload {
	out := base
	if in.Example1 != nil {
		out.Example1 = *in.Example1
	}
	if in.Example2 != nil {
		out.Example2 = *in.Example2
	}
	if in.Example3 != nil {
		out.Example3 = *in.Example3
	}
	if in.CategoriesFlag != nil {
		out.CategoriesFlag = *in.CategoriesFlag
	}
	if in.USCategories != nil {
		out.USCategories = *in.USCategories
	}
	if in.CustomContext != nil {
		out.CustomContext = *in.CustomContext
	}
	if in.EmailConfirmation != nil {
		out.EmailConfirmation = *in.EmailConfirmation
	}
	if in.InterviewTrackerGDriveID != nil {
		out.InterviewTrackerGDriveID = *in.InterviewTrackerGDriveID
	}
	if in.InterviewRepositoryGDriveURL != nil {
		out.InterviewRepositoryGDriveURL = *in.InterviewRepositoryGDriveURL
	}
	if in.GlobalRepositoryGDriveURL != nil {
		out.GlobalRepositoryGDriveURL = *in.GlobalRepositoryGDriveURL
	}
	if in.OutputGDriveURL != nil {
		out.OutputGDriveURL = *in.OutputGDriveURL
	}
	if in.LoggingOutputURL != nil {
		out.LoggingOutputURL = *in.LoggingOutputURL
	}
	return out
}
