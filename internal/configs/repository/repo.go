package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

// ConfigRepository persists configuration version rows. Every method takes
// an explicit DBTX so the engine's multi-write operations run on the
// request transaction and see their own writes.
type ConfigRepository struct {
	db *sql.DB
}

func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// DB returns the underlying handle for callers that run outside a
// transaction.
func (r *ConfigRepository) DB() postgres.DBTX { return r.db }

const configColumns = `cfg.id, cfg.project_id, cfg.version, cfg.is_latest, cfg.config, cfg.change_summary,
       cfg.created_by, cfg.updated_by, cfg.created_at, cfg.updated_at, cfg.is_deleted,
       p.name, cb.email, ub.email`

const configJoins = `
LEFT JOIN project p ON p.id = cfg.project_id
LEFT JOIN users cb ON cb.id = cfg.created_by
LEFT JOIN users ub ON ub.id = cfg.updated_by`

func scanConfig(row interface{ Scan(...any) error }) (*domain.Config, error) {
	var (
		c       domain.Config
		payload []byte
	)
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.Version, &c.IsLatest, &payload, &c.ChangeSummary,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted,
		&c.ProjectName, &c.CreatedByEmail, &c.UpdatedByEmail,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &c.Payload); err != nil {
		return nil, fmt.Errorf("decode config payload: %w", err)
	}
	return &c, nil
}

// FindByID returns the row regardless of its deletion state; version
// history stays readable after soft delete.
func (r *ConfigRepository) FindByID(ctx context.Context, q postgres.DBTX, id string) (*domain.Config, error) {
	if q == nil {
		q = r.db
	}
	const query = `SELECT ` + configColumns + ` FROM configs cfg` + configJoins + ` WHERE cfg.id = $1;`
	c, err := scanConfig(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("config not found")
	}
	return c, err
}

// FindActiveByID returns the row only when it has not been soft-deleted.
func (r *ConfigRepository) FindActiveByID(ctx context.Context, q postgres.DBTX, id string) (*domain.Config, error) {
	if q == nil {
		q = r.db
	}
	const query = `SELECT ` + configColumns + ` FROM configs cfg` + configJoins + ` WHERE cfg.id = $1 AND cfg.is_deleted = false;`
	c, err := scanConfig(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("config with ID %s not found", id)
	}
	return c, err
}

// ScopeOccupied reports whether the scope already has a non-deleted
// lineage. A nil projectID means the global scope.
func (r *ConfigRepository) ScopeOccupied(ctx context.Context, q postgres.DBTX, projectID *string) (bool, error) {
	if q == nil {
		q = r.db
	}
	const query = `SELECT EXISTS (SELECT 1 FROM configs WHERE project_id IS NOT DISTINCT FROM $1 AND is_deleted = false);`
	var occupied bool
	err := q.QueryRowContext(ctx, query, projectID).Scan(&occupied)
	return occupied, err
}

// FindPrevious locates the non-deleted, non-latest row at exactly the
// given version within a scope. Promotion after delete looks back one
// version only; deeper history is never searched.
func (r *ConfigRepository) FindPrevious(ctx context.Context, q postgres.DBTX, projectID *string, version int) (*domain.Config, error) {
	if q == nil {
		q = r.db
	}
	const query = `SELECT ` + configColumns + ` FROM configs cfg` + configJoins + `
WHERE cfg.project_id IS NOT DISTINCT FROM $1 AND cfg.version = $2
  AND cfg.is_deleted = false AND cfg.is_latest = false;`
	c, err := scanConfig(q.QueryRowContext(ctx, query, projectID, version))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

type InsertConfig struct {
	ProjectID     *string
	Version       int
	Payload       domain.Payload
	ChangeSummary *string
	CreatedBy     *string
	UpdatedBy     *string
}

// Insert appends a new version row with is_latest=true. The partial unique
// indexes on (scope, version) and (scope, is_latest) back the engine's
// invariants; a violation surfaces as a Conflict.
func (r *ConfigRepository) Insert(ctx context.Context, q postgres.DBTX, in InsertConfig) (*domain.Config, error) {
	if q == nil {
		q = r.db
	}
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode config payload: %w", err)
	}

	const query = `
INSERT INTO configs (project_id, version, is_latest, config, change_summary, created_by, updated_by)
VALUES ($1, $2, true, $3, $4, $5, $6)
RETURNING id;
`
	var id string
	err = q.QueryRowContext(ctx, query, in.ProjectID, in.Version, payload,
		in.ChangeSummary, in.CreatedBy, in.UpdatedBy).Scan(&id)
	if postgres.IsUniqueViolation(err) {
		return nil, apperr.Conflict("config version %d already exists for this scope", in.Version)
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, q, id)
}

func (r *ConfigRepository) MarkNotLatest(ctx context.Context, q postgres.DBTX, id string) error {
	if q == nil {
		q = r.db
	}
	_, err := q.ExecContext(ctx,
		`UPDATE configs SET is_latest = false, updated_at = now() WHERE id = $1;`, id)
	return err
}

func (r *ConfigRepository) MarkLatest(ctx context.Context, q postgres.DBTX, id string) error {
	if q == nil {
		q = r.db
	}
	_, err := q.ExecContext(ctx,
		`UPDATE configs SET is_latest = true, updated_at = now() WHERE id = $1;`, id)
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("scope already has a latest config")
	}
	return err
}

func (r *ConfigRepository) MarkDeleted(ctx context.Context, q postgres.DBTX, id, actorID string) error {
	if q == nil {
		q = r.db
	}
	_, err := q.ExecContext(ctx, `
UPDATE configs SET is_deleted = true, is_latest = false, updated_by = $2, updated_at = now()
WHERE id = $1;`, id, nullable(actorID))
	return err
}

var sortColumns = map[string]string{
	"created_at": "cfg.created_at",
	"updated_at": "cfg.updated_at",
	"version":    "cfg.version",
	"is_latest":  "cfg.is_latest",
}

// FindAllPaginated lists rows matching filter, newest first unless a sort
// is given. The literal projectID "null" selects the global scope.
func (r *ConfigRepository) FindAllPaginated(ctx context.Context, q postgres.DBTX, filter domain.ListFilter, sort *domain.Sort, page, limit int) ([]*domain.Config, int, error) {
	if q == nil {
		q = r.db
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ProjectID != nil {
		if *filter.ProjectID == "null" {
			where = append(where, "cfg.project_id IS NULL")
		} else {
			where = append(where, "cfg.project_id = "+arg(*filter.ProjectID))
		}
	}
	if filter.Version != nil {
		where = append(where, "cfg.version = "+arg(*filter.Version))
	}
	if filter.IsLatest != nil {
		where = append(where, "cfg.is_latest = "+arg(*filter.IsLatest))
	}
	if filter.CreatedBy != nil {
		where = append(where, "cfg.created_by = "+arg(*filter.CreatedBy))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM configs cfg`+clause+`;`, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "cfg.created_at DESC"
	if sort != nil {
		col, ok := sortColumns[sort.Field]
		if !ok {
			return nil, 0, apperr.BadRequest("unsupported sort field %q", sort.Field)
		}
		dir := "DESC"
		if strings.EqualFold(sort.Order, "ASC") {
			dir = "ASC"
		}
		orderBy = col + " " + dir
	}

	query := `SELECT ` + configColumns + ` FROM configs cfg` + configJoins + clause +
		` ORDER BY ` + orderBy +
		` LIMIT ` + arg(limit) + ` OFFSET ` + arg((page-1)*limit) + `;`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*domain.Config
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
