package domain

import (
	"time"

	clientsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
)

type Project struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	ClientTeam  *string                `json:"client_team,omitempty"`
	ClientID    string                 `json:"client_id"`
	Client      *clientsdomain.Client  `json:"client,omitempty"`
	CreatedBy   *string                `json:"created_by,omitempty"`
	UpdatedBy   *string                `json:"updated_by,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	IsDeleted   bool                   `json:"is_deleted"`
}

type CreateProject struct {
	Name           string
	Description    string
	ClientTeam     *string
	ClientID       string
	StakeholderIDs []string
}

type UpdateProject struct {
	Name           *string
	Description    *string
	ClientTeam     *string
	ClientID       *string
	StakeholderIDs []string
}

// DirectoryEntry is the project → client resolution handed to the
// configuration engine: descriptive fields to stamp into payloads plus
// whether the project already owns a configuration lineage.
type DirectoryEntry struct {
	ID          string
	Name        string
	Description string
	ClientName  string
	ClientCode  string
	HasConfig   bool
}
