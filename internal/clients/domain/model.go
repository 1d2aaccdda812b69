package domain

import "time"

// Client is a customer organization. Projects, stakeholders, and interviews
// all hang off a client.
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ClientCode string    `json:"client_code"`
	CreatedBy  *string   `json:"created_by,omitempty"`
	UpdatedBy  *string   `json:"updated_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IsDeleted  bool      `json:"is_deleted"`
}

type CreateClient struct {
	Name       string
	ClientCode string
}

type UpdateClient struct {
	Name       *string
	ClientCode *string
}
