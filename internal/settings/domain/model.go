package domain

import "time"

// AdminSettings is the single service-account credential record used to
// validate Google Drive references on configuration payloads.
type AdminSettings struct {
	ID                      string    `json:"id"`
	Type                    string    `json:"type"`
	ProjectID               *string   `json:"project_id,omitempty"`
	PrivateKeyID            *string   `json:"private_key_id,omitempty"`
	PrivateKey              string    `json:"-"`
	ClientEmail             string    `json:"client_email"`
	ClientID                *string   `json:"client_id,omitempty"`
	AuthURI                 *string   `json:"auth_uri,omitempty"`
	TokenURI                *string   `json:"token_uri,omitempty"`
	AuthProviderX509CertURL *string   `json:"auth_provider_x509_cert_url,omitempty"`
	ClientX509CertURL       *string   `json:"client_x509_cert_url,omitempty"`
	UniverseDomain          *string   `json:"universe_domain,omitempty"`
	CreatedBy               *string   `json:"created_by,omitempty"`
	UpdatedBy               *string   `json:"updated_by,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
	IsDeleted               bool      `json:"is_deleted"`
}

// UpdateAdminSettings carries partial updates; empty fields are left
// unchanged.
type UpdateAdminSettings struct {
	Type                    *string
	ProjectID               *string
	PrivateKeyID            *string
	PrivateKey              *string
	ClientEmail             *string
	ClientID                *string
	AuthURI                 *string
	TokenURI                *string
	AuthProviderX509CertURL *string
	ClientX509CertURL       *string
	UniverseDomain          *string
}
