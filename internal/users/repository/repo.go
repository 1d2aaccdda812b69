package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

// UserRepository provides persistence operations for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password, role, access_scopes, created_by, updated_by, created_at, updated_at, is_deleted`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var scopes []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &scopes,
		&u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt, &u.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if len(scopes) > 0 {
		if err := json.Unmarshal(scopes, &u.AccessScopes); err != nil {
			return nil, fmt.Errorf("decode access_scopes: %w", err)
		}
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, in domain.CreateUser, passwordHash, actorID string) (*domain.User, error) {
	scopes, err := json.Marshal(in.AccessScopes)
	if err != nil {
		return nil, fmt.Errorf("encode access_scopes: %w", err)
	}

	const q = `
INSERT INTO users (email, password, role, access_scopes, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, in.Email, passwordHash, in.Role, scopes, nullable(actorID)))
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("user with email %s already exists", in.Email)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_deleted = false;`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user with email %s not found", email)
	}
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = false;`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user with ID %s not found", id)
	}
	return u, err
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE is_deleted = false ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, in domain.UpdateUser, passwordHash *string, actorID string) (*domain.User, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := existing.Email
	if in.Email != nil {
		email = *in.Email
	}
	role := existing.Role
	if in.Role != nil {
		role = *in.Role
	}
	password := existing.PasswordHash
	if passwordHash != nil {
		password = *passwordHash
	}
	accessScopes := existing.AccessScopes
	if in.AccessScopes != nil {
		accessScopes = in.AccessScopes
	}

	scopes, err := json.Marshal(accessScopes)
	if err != nil {
		return nil, fmt.Errorf("encode access_scopes: %w", err)
	}

	const q = `
UPDATE users
SET email = $2, password = $3, role = $4, access_scopes = $5, updated_by = $6, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id, email, password, role, scopes, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user with ID %s not found", id)
	}
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("user with email %s already exists", email)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	const q = `
UPDATE users
SET is_deleted = true, updated_by = $2, updated_at = now()
WHERE id = $1 AND is_deleted = false;
`
	result, err := r.db.ExecContext(ctx, q, id, nullable(actorID))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// nullable turns an empty actor ID into SQL NULL for audited columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
