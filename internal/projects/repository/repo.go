package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	clientsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.client_team, p.client_id, p.created_by, p.updated_by, p.created_at, p.updated_at, p.is_deleted`

const projectColumnsBare = `id, name, description, client_team, client_id, created_by, updated_by, created_at, updated_at, is_deleted`

func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ClientTeam, &p.ClientID,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt, &p.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, in domain.CreateProject, actorID string) (*domain.Project, error) {
	p, err := r.createOn(ctx, r.db, in, actorID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("project with name %s already exists", in.Name)
		}
		return nil, err
	}
	return p, nil
}

// CreateTx inserts a project inside the given transaction.
func (r *ProjectRepository) CreateTx(ctx context.Context, tx *sql.Tx, in domain.CreateProject, actorID string) (*domain.Project, error) {
	return r.createOn(ctx, tx, in, actorID)
}

func (r *ProjectRepository) createOn(ctx context.Context, q postgres.DBTX, in domain.CreateProject, actorID string) (*domain.Project, error) {
	const query = `
INSERT INTO project (name, description, client_team, client_id, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING ` + projectColumnsBare + `;
`
	return scanProject(q.QueryRowContext(ctx, query,
		in.Name, in.Description, in.ClientTeam, in.ClientID, nullable(actorID)))
}

// FindByID returns the project with its client hydrated.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `,
       c.id, c.name, c.client_code, c.created_by, c.updated_by, c.created_at, c.updated_at, c.is_deleted
FROM project p
JOIN client c ON c.id = p.client_id
WHERE p.id = $1 AND p.is_deleted = false;
`
	var p domain.Project
	var cl clientsdomain.Client
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.ClientTeam, &p.ClientID,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt, &p.IsDeleted,
		&cl.ID, &cl.Name, &cl.ClientCode, &cl.CreatedBy, &cl.UpdatedBy,
		&cl.CreatedAt, &cl.UpdatedAt, &cl.IsDeleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	p.Client = &cl
	return &p, nil
}

// FindDirectoryEntry resolves a project to the descriptive fields stamped
// into configuration payloads, together with whether a non-deleted
// configuration lineage already exists for it. Runs on the supplied
// transaction so the configuration engine sees its own writes.
func (r *ProjectRepository) FindDirectoryEntry(ctx context.Context, q postgres.DBTX, id string) (*domain.DirectoryEntry, error) {
	const query = `
SELECT p.id, p.name, p.description, c.name, c.client_code,
       EXISTS (SELECT 1 FROM configs cf WHERE cf.project_id = p.id AND cf.is_deleted = false)
FROM project p
JOIN client c ON c.id = p.client_id
WHERE p.id = $1 AND p.is_deleted = false;
`
	var e domain.DirectoryEntry
	err := q.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Description, &e.ClientName, &e.ClientCode, &e.HasConfig,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByIDTx returns the bare project row inside the given transaction.
func (r *ProjectRepository) FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM project p WHERE p.id = $1 AND p.is_deleted = false;`
	p, err := scanProject(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project with ID %s not found", id)
	}
	return p, err
}

// FindByName matches projects by exact name, deleted or not, for the bulk
// upload reconciliation.
func (r *ProjectRepository) FindByName(ctx context.Context, tx *sql.Tx, name string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM project p WHERE p.name = $1 LIMIT 1;`
	p, err := scanProject(tx.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProjectRepository) List(ctx context.Context, clientID string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM project p WHERE p.is_deleted = false`
	args := []any{}
	if clientID != "" {
		q += ` AND p.client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY p.created_at DESC;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id string, in domain.UpdateProject, actorID string) (*domain.Project, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := existing.Name
	if in.Name != nil {
		name = *in.Name
	}
	description := existing.Description
	if in.Description != nil {
		description = *in.Description
	}
	clientTeam := existing.ClientTeam
	if in.ClientTeam != nil {
		clientTeam = in.ClientTeam
	}
	clientID := existing.ClientID
	if in.ClientID != nil {
		clientID = *in.ClientID
	}

	const q = `
UPDATE project
SET name = $2, description = $3, client_team = $4, client_id = $5, updated_by = $6, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + projectColumnsBare + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, name, description, clientTeam, clientID, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project with ID %s not found", id)
	}
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("project with name %s already exists", name)
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	const q = `
UPDATE project
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

// ReplaceStakeholders swaps the project's stakeholder assignment.
func (r *ProjectRepository) ReplaceStakeholders(ctx context.Context, projectID string, stakeholderIDs []string) error {
	return r.replaceStakeholdersOn(ctx, r.db, projectID, stakeholderIDs)
}

// LinkStakeholdersTx adds the given stakeholders to the project without
// removing existing links (bulk upload semantics).
func (r *ProjectRepository) LinkStakeholdersTx(ctx context.Context, tx *sql.Tx, projectID string, stakeholderIDs []string) error {
	const q = `
INSERT INTO project_stakeholders (project_id, stakeholder_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING;
`
	for _, sid := range stakeholderIDs {
		if _, err := tx.ExecContext(ctx, q, projectID, sid); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepository) replaceStakeholdersOn(ctx context.Context, q postgres.DBTX, projectID string, stakeholderIDs []string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM project_stakeholders WHERE project_id = $1;`, projectID); err != nil {
		return err
	}
	const ins = `INSERT INTO project_stakeholders (project_id, stakeholder_id) VALUES ($1, $2);`
	for _, sid := range stakeholderIDs {
		if _, err := q.ExecContext(ctx, ins, projectID, sid); err != nil {
			return err
		}
	}
	return nil
}

// StakeholderIDs returns the IDs of stakeholders assigned to the project.
func (r *ProjectRepository) StakeholderIDs(ctx context.Context, projectID string) ([]string, error) {
	const q = `SELECT stakeholder_id FROM project_stakeholders WHERE project_id = $1;`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
