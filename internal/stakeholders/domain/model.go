package domain

import "time"

// Stakeholder is a client-side contact interviewed during discovery.
type Stakeholder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      *string   `json:"role,omitempty"`
	Team      *string   `json:"team,omitempty"`
	ClientID  string    `json:"client_id"`
	CreatedBy *string   `json:"created_by,omitempty"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted"`
}

type CreateStakeholder struct {
	Name     string
	Email    *string
	Phone    *string
	Role     *string
	Team     *string
	ClientID string
}

type UpdateStakeholder struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *string
	Team     *string
	ClientID *string
}
