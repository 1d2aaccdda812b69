package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type StakeholderRepository struct {
	db *sql.DB
}

func NewStakeholderRepository(db *sql.DB) *StakeholderRepository {
	return &StakeholderRepository{db: db}
}

const stakeholderColumns = `id, name, email, phone, role, team, client_id, created_by, updated_by, created_at, updated_at, is_deleted`

func scanStakeholder(row interface{ Scan(...any) error }) (*domain.Stakeholder, error) {
	var st domain.Stakeholder
	err := row.Scan(
		&st.ID, &st.Name, &st.Email, &st.Phone, &st.Role, &st.Team, &st.ClientID,
		&st.CreatedBy, &st.UpdatedBy, &st.CreatedAt, &st.UpdatedAt, &st.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StakeholderRepository) Create(ctx context.Context, in domain.CreateStakeholder, actorID string) (*domain.Stakeholder, error) {
	st, err := r.createOn(ctx, r.db, in, actorID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("stakeholder with this email or phone already exists")
		}
		return nil, err
	}
	return st, nil
}

// CreateTx inserts a stakeholder inside the given transaction.
func (r *StakeholderRepository) CreateTx(ctx context.Context, tx *sql.Tx, in domain.CreateStakeholder, actorID string) (*domain.Stakeholder, error) {
	return r.createOn(ctx, tx, in, actorID)
}

func (r *StakeholderRepository) createOn(ctx context.Context, q postgres.DBTX, in domain.CreateStakeholder, actorID string) (*domain.Stakeholder, error) {
	const query = `
INSERT INTO client_stakeholder (name, email, phone, role, team, client_id, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + stakeholderColumns + `;
`
	return scanStakeholder(q.QueryRowContext(ctx, query,
		in.Name, in.Email, in.Phone, in.Role, in.Team, in.ClientID, nullable(actorID)))
}

func (r *StakeholderRepository) FindByID(ctx context.Context, id string) (*domain.Stakeholder, error) {
	const q = `SELECT ` + stakeholderColumns + ` FROM client_stakeholder WHERE id = $1 AND is_deleted = false;`
	st, err := scanStakeholder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("stakeholder with ID %s not found", id)
	}
	return st, err
}

// FindByEmailOrPhone matches on email first, then phone; nil result means
// no match. Deleted rows are returned so callers can refuse them.
func (r *StakeholderRepository) FindByEmailOrPhone(ctx context.Context, tx *sql.Tx, email, phone *string) (*domain.Stakeholder, error) {
	const q = `
SELECT ` + stakeholderColumns + `
FROM client_stakeholder
WHERE ($1::text IS NOT NULL AND email = $1) OR ($2::text IS NOT NULL AND phone = $2)
LIMIT 1;
`
	st, err := scanStakeholder(tx.QueryRowContext(ctx, q, email, phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return st, err
}

// RefreshFieldsTx rewrites the non-unique fields of an existing
// stakeholder during bulk reconciliation. Empty values are skipped.
func (r *StakeholderRepository) RefreshFieldsTx(ctx context.Context, tx *sql.Tx, id, name string, team, role *string, actorID string) (*domain.Stakeholder, error) {
	const q = `
UPDATE client_stakeholder
SET name = COALESCE(NULLIF($2, ''), name),
    team = COALESCE($3, team),
    role = COALESCE($4, role),
    updated_by = $5,
    updated_at = now()
WHERE id = $1
RETURNING ` + stakeholderColumns + `;
`
	return scanStakeholder(tx.QueryRowContext(ctx, q, id, name, team, role, nullable(actorID)))
}

// ListByClient returns the client's non-deleted stakeholders.
func (r *StakeholderRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Stakeholder, error) {
	const q = `SELECT ` + stakeholderColumns + ` FROM client_stakeholder WHERE client_id = $1 AND is_deleted = false ORDER BY created_at DESC;`
	return r.queryList(ctx, q, clientID)
}

func (r *StakeholderRepository) List(ctx context.Context) ([]domain.Stakeholder, error) {
	const q = `SELECT ` + stakeholderColumns + ` FROM client_stakeholder WHERE is_deleted = false ORDER BY created_at DESC;`
	return r.queryList(ctx, q)
}

func (r *StakeholderRepository) queryList(ctx context.Context, q string, args ...any) ([]domain.Stakeholder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Stakeholder, 0, 16)
	for rows.Next() {
		st, err := scanStakeholder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (r *StakeholderRepository) Update(ctx context.Context, id string, in domain.UpdateStakeholder, actorID string) (*domain.Stakeholder, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := existing.Name
	if in.Name != nil {
		name = *in.Name
	}
	email := existing.Email
	if in.Email != nil {
		email = in.Email
	}
	phone := existing.Phone
	if in.Phone != nil {
		phone = in.Phone
	}
	role := existing.Role
	if in.Role != nil {
		role = in.Role
	}
	team := existing.Team
	if in.Team != nil {
		team = in.Team
	}
	clientID := existing.ClientID
	if in.ClientID != nil {
		clientID = *in.ClientID
	}

	const q = `
UPDATE client_stakeholder
SET name = $2, email = $3, phone = $4, role = $5, team = $6, client_id = $7, updated_by = $8, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + stakeholderColumns + `;
`
	st, err := scanStakeholder(r.db.QueryRowContext(ctx, q, id, name, email, phone, role, team, clientID, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("stakeholder with ID %s not found", id)
	}
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("stakeholder with this email or phone already exists")
		}
		return nil, err
	}
	return st, nil
}

func (r *StakeholderRepository) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	const q = `
UPDATE client_stakeholder
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

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
