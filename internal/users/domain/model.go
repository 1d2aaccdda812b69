package domain

import "time"

type Role string

const (
	RoleSuperAdmin    Role = "SuperAdmin"
	RoleAdmin         Role = "Admin"
	RoleInterviewUser Role = "InterviewUser"
)

// AccessScopes maps scope names to grants. Stored as JSONB on the user row
// and carried inside the JWT so the scope guard never hits the database.
type AccessScopes map[string]bool

// Scope names checked by route guards.
const (
	ScopeAccessUsers = "canAccessUsers"
	ScopeCreateUsers = "canCreateUsers"
	ScopeUpdateUsers = "canUpdateUsers"
	ScopeDeleteUsers = "canDeleteUsers"

	ScopeAccessClients = "canAccessClients"
	ScopeCreateClients = "canCreateClients"
	ScopeUpdateClients = "canUpdateClients"
	ScopeDeleteClients = "canDeleteClients"

	ScopeAccessStakeholders = "canAccessStakeholders"
	ScopeCreateStakeholders = "canCreateStakeholders"
	ScopeUpdateStakeholders = "canUpdateStakeholders"
	ScopeDeleteStakeholders = "canDeleteStakeholders"

	ScopeAccessProjects = "canAccessProjects"
	ScopeCreateProjects = "canCreateProjects"
	ScopeUpdateProjects = "canUpdateProjects"
	ScopeDeleteProjects = "canDeleteProjects"

	ScopeAccessInterviews = "canAccessInterviews"
	ScopeCreateInterviews = "canCreateInterviews"
	ScopeUpdateInterviews = "canUpdateInterviews"
	ScopeDeleteInterviews = "canDeleteInterviews"

	ScopeAccessConfig = "canAccessConfig"
	ScopeCreateConfig = "canCreateConfig"
	ScopeUpdateConfig = "canUpdateConfig"
	ScopeDeleteConfig = "canDeleteConfig"

	ScopeAccessAdminSettings = "canAccessAdminSettings"
	ScopeUpdateAdminSettings = "canUpdateAdminSettings"
)

// AllScopes returns a grant for every known scope, used when seeding the
// superadmin account.
func AllScopes() AccessScopes {
	all := []string{
		ScopeAccessUsers, ScopeCreateUsers, ScopeUpdateUsers, ScopeDeleteUsers,
		ScopeAccessClients, ScopeCreateClients, ScopeUpdateClients, ScopeDeleteClients,
		ScopeAccessStakeholders, ScopeCreateStakeholders, ScopeUpdateStakeholders, ScopeDeleteStakeholders,
		ScopeAccessProjects, ScopeCreateProjects, ScopeUpdateProjects, ScopeDeleteProjects,
		ScopeAccessInterviews, ScopeCreateInterviews, ScopeUpdateInterviews, ScopeDeleteInterviews,
		ScopeAccessConfig, ScopeCreateConfig, ScopeUpdateConfig, ScopeDeleteConfig,
		ScopeAccessAdminSettings, ScopeUpdateAdminSettings,
	}
	scopes := make(AccessScopes, len(all))
	for _, s := range all {
		scopes[s] = true
	}
	return scopes
}

type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	AccessScopes AccessScopes `json:"access_scopes,omitempty"`
	CreatedBy    *string      `json:"created_by,omitempty"`
	UpdatedBy    *string      `json:"updated_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	IsDeleted    bool         `json:"is_deleted"`
}

type CreateUser struct {
	Email        string
	Password     string
	Role         Role
	AccessScopes AccessScopes
}

// UpdateUser carries partial updates; nil fields are left unchanged.
type UpdateUser struct {
	Email        *string
	Password     *string
	Role         *Role
	AccessScopes AccessScopes
}
