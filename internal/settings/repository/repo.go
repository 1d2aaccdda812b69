package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/settings/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type AdminSettingsRepository struct {
	db *sql.DB
}

func NewAdminSettingsRepository(db *sql.DB) *AdminSettingsRepository {
	return &AdminSettingsRepository{db: db}
}

const settingsColumns = `id, type, project_id, private_key_id, private_key, client_email, client_id, auth_uri, token_uri, auth_provider_x509_cert_url, client_x509_cert_url, universe_domain, created_by, updated_by, created_at, updated_at, is_deleted`

func scanSettings(row interface{ Scan(...any) error }) (*domain.AdminSettings, error) {
	var s domain.AdminSettings
	err := row.Scan(
		&s.ID, &s.Type, &s.ProjectID, &s.PrivateKeyID, &s.PrivateKey, &s.ClientEmail,
		&s.ClientID, &s.AuthURI, &s.TokenURI, &s.AuthProviderX509CertURL,
		&s.ClientX509CertURL, &s.UniverseDomain,
		&s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt, &s.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSingle returns the settings record. There is at most one row; its
// absence is a NotFound the caller surfaces as a configuration problem.
func (r *AdminSettingsRepository) FindSingle(ctx context.Context, q postgres.DBTX) (*domain.AdminSettings, error) {
	if q == nil {
		q = r.db
	}
	const query = `SELECT ` + settingsColumns + ` FROM admin_settings WHERE is_deleted = false ORDER BY created_at LIMIT 1;`
	s, err := scanSettings(q.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("admin settings not found")
	}
	return s, err
}

func (r *AdminSettingsRepository) Update(ctx context.Context, id string, in domain.UpdateAdminSettings, actorID string) (*domain.AdminSettings, error) {
	const find = `SELECT ` + settingsColumns + ` FROM admin_settings WHERE id = $1 AND is_deleted = false;`
	existing, err := scanSettings(r.db.QueryRowContext(ctx, find, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("admin settings with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	settingsType := existing.Type
	if in.Type != nil && *in.Type != "" {
		settingsType = *in.Type
	}
	privateKey := existing.PrivateKey
	if in.PrivateKey != nil && *in.PrivateKey != "" {
		privateKey = strings.TrimSpace(*in.PrivateKey)
	}
	clientEmail := existing.ClientEmail
	if in.ClientEmail != nil && *in.ClientEmail != "" {
		clientEmail = *in.ClientEmail
	}
	projectID := coalesce(in.ProjectID, existing.ProjectID)
	privateKeyID := coalesce(in.PrivateKeyID, existing.PrivateKeyID)
	clientID := coalesce(in.ClientID, existing.ClientID)
	authURI := coalesce(in.AuthURI, existing.AuthURI)
	tokenURI := coalesce(in.TokenURI, existing.TokenURI)
	authProviderCertURL := coalesce(in.AuthProviderX509CertURL, existing.AuthProviderX509CertURL)
	clientCertURL := coalesce(in.ClientX509CertURL, existing.ClientX509CertURL)
	universeDomain := coalesce(in.UniverseDomain, existing.UniverseDomain)

	const q = `
UPDATE admin_settings
SET type = $2, project_id = $3, private_key_id = $4, private_key = $5, client_email = $6,
    client_id = $7, auth_uri = $8, token_uri = $9, auth_provider_x509_cert_url = $10,
    client_x509_cert_url = $11, universe_domain = $12, updated_by = $13, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + settingsColumns + `;
`
	s, err := scanSettings(r.db.QueryRowContext(ctx, q, id,
		settingsType, projectID, privateKeyID, privateKey, clientEmail,
		clientID, authURI, tokenURI, authProviderCertURL, clientCertURL,
		universeDomain, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("admin settings with ID %s not found", id)
	}
	return s, err
}

// Insert creates the settings row; used by the seeder only.
func (r *AdminSettingsRepository) Insert(ctx context.Context, settingsType, clientEmail, privateKey string) (*domain.AdminSettings, error) {
	const q = `
INSERT INTO admin_settings (type, client_email, private_key)
VALUES ($1, $2, $3)
ON CONFLICT (client_email) DO UPDATE SET updated_at = now()
RETURNING ` + settingsColumns + `;
`
	return scanSettings(r.db.QueryRowContext(ctx, q, settingsType, clientEmail, privateKey))
}

func coalesce(in *string, existing *string) *string {
	if in != nil && *in != "" {
		return in
	}
	return existing
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
