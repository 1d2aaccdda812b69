package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, client_code, created_by, updated_by, created_at, updated_at, is_deleted`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	var cl domain.Client
	err := row.Scan(
		&cl.ID, &cl.Name, &cl.ClientCode, &cl.CreatedBy, &cl.UpdatedBy,
		&cl.CreatedAt, &cl.UpdatedAt, &cl.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *ClientRepository) Create(ctx context.Context, in domain.CreateClient, actorID string) (*domain.Client, error) {
	const q = `
INSERT INTO client (name, client_code, created_by, updated_by)
VALUES ($1, $2, $3, $3)
RETURNING ` + clientColumns + `;
`
	cl, err := scanClient(r.db.QueryRowContext(ctx, q, in.Name, in.ClientCode, nullable(actorID)))
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("client with code %s already exists", in.ClientCode)
		}
		return nil, err
	}
	return cl, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDTx is the transaction-scoped variant used by bulk upload.
func (r *ClientRepository) FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Client, error) {
	return r.findByID(ctx, tx, id)
}

func (r *ClientRepository) findByID(ctx context.Context, q postgres.DBTX, id string) (*domain.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM client WHERE id = $1 AND is_deleted = false;`
	cl, err := scanClient(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("client with ID %s not found", id)
	}
	return cl, err
}

// FindByCodeOrName matches on client_code first, then name. Deleted rows
// are returned too so callers can refuse to attach data to them.
func (r *ClientRepository) FindByCodeOrName(ctx context.Context, tx *sql.Tx, code, name string) (*domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM client WHERE client_code = $1 OR name = $2 LIMIT 1;`
	cl, err := scanClient(tx.QueryRowContext(ctx, q, code, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return cl, err
}

// CreateTx inserts a client inside the given transaction.
func (r *ClientRepository) CreateTx(ctx context.Context, tx *sql.Tx, in domain.CreateClient, actorID string) (*domain.Client, error) {
	const q = `
INSERT INTO client (name, client_code, created_by, updated_by)
VALUES ($1, $2, $3, $3)
RETURNING ` + clientColumns + `;
`
	return scanClient(tx.QueryRowContext(ctx, q, in.Name, in.ClientCode, nullable(actorID)))
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM client WHERE is_deleted = false ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Client, 0, 16)
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cl)
	}
	return out, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, id string, in domain.UpdateClient, actorID string) (*domain.Client, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := existing.Name
	if in.Name != nil {
		name = *in.Name
	}
	code := existing.ClientCode
	if in.ClientCode != nil {
		code = *in.ClientCode
	}

	const q = `
UPDATE client
SET name = $2, client_code = $3, updated_by = $4, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + clientColumns + `;
`
	cl, err := scanClient(r.db.QueryRowContext(ctx, q, id, name, code, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("client with ID %s not found", id)
	}
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("client with code %s already exists", code)
		}
		return nil, err
	}
	return cl, nil
}

func (r *ClientRepository) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	const q = `
UPDATE client
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
