package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/interviews/domain"
)

type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

const interviewColumns = `id, name, date, gdrive_id, request_distillation, request_coaching, request_user_stories, client_id, project_id, created_by, updated_by, created_at, updated_at, is_deleted`

func scanInterview(row interface{ Scan(...any) error }) (*domain.Interview, error) {
	var iv domain.Interview
	err := row.Scan(
		&iv.ID, &iv.Name, &iv.Date, &iv.GDriveID,
		&iv.RequestDistillation, &iv.RequestCoaching, &iv.RequestUserStories,
		&iv.ClientID, &iv.ProjectID,
		&iv.CreatedBy, &iv.UpdatedBy, &iv.CreatedAt, &iv.UpdatedAt, &iv.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *InterviewRepository) Create(ctx context.Context, in domain.CreateInterview, actorID string) (*domain.Interview, error) {
	const q = `
INSERT INTO discovery_interview (name, date, gdrive_id, request_distillation, request_coaching, request_user_stories, client_id, project_id, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING ` + interviewColumns + `;
`
	iv, err := scanInterview(r.db.QueryRowContext(ctx, q,
		in.Name, in.Date, in.GDriveID,
		in.RequestDistillation, in.RequestCoaching, in.RequestUserStories,
		in.ClientID, in.ProjectID, nullable(actorID)))
	if err != nil {
		return nil, err
	}

	if err := r.replaceStakeholders(ctx, iv.ID, in.StakeholderIDs); err != nil {
		return nil, err
	}
	iv.StakeholderIDs = in.StakeholderIDs
	return iv, nil
}

func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*domain.Interview, error) {
	const q = `SELECT ` + interviewColumns + ` FROM discovery_interview WHERE id = $1 AND is_deleted = false;`
	iv, err := scanInterview(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("interview with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	ids, err := r.stakeholderIDs(ctx, iv.ID)
	if err != nil {
		return nil, err
	}
	iv.StakeholderIDs = ids
	return iv, nil
}

// List returns non-deleted interviews, optionally filtered by client
// and/or project.
func (r *InterviewRepository) List(ctx context.Context, clientID, projectID string) ([]domain.Interview, error) {
	q := `SELECT ` + interviewColumns + ` FROM discovery_interview WHERE is_deleted = false`
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		q += ` AND client_id = $1`
	}
	if projectID != "" {
		args = append(args, projectID)
		if len(args) == 1 {
			q += ` AND project_id = $1`
		} else {
			q += ` AND project_id = $2`
		}
	}
	q += ` ORDER BY date DESC;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Interview, 0, 32)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

func (r *InterviewRepository) Update(ctx context.Context, id string, in domain.UpdateInterview, actorID string) (*domain.Interview, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := existing.Name
	if in.Name != nil {
		name = *in.Name
	}
	date := existing.Date
	if in.Date != nil {
		date = *in.Date
	}
	gdriveID := existing.GDriveID
	if in.GDriveID != nil {
		gdriveID = in.GDriveID
	}
	distillation := existing.RequestDistillation
	if in.RequestDistillation != nil {
		distillation = in.RequestDistillation
	}
	coaching := existing.RequestCoaching
	if in.RequestCoaching != nil {
		coaching = in.RequestCoaching
	}
	userStories := existing.RequestUserStories
	if in.RequestUserStories != nil {
		userStories = in.RequestUserStories
	}

	const q = `
UPDATE discovery_interview
SET name = $2, date = $3, gdrive_id = $4, request_distillation = $5, request_coaching = $6, request_user_stories = $7, updated_by = $8, updated_at = now()
WHERE id = $1 AND is_deleted = false
RETURNING ` + interviewColumns + `;
`
	iv, err := scanInterview(r.db.QueryRowContext(ctx, q, id, name, date, gdriveID, distillation, coaching, userStories, nullable(actorID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("interview with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if in.StakeholderIDs != nil {
		if err := r.replaceStakeholders(ctx, iv.ID, in.StakeholderIDs); err != nil {
			return nil, err
		}
		iv.StakeholderIDs = in.StakeholderIDs
	} else {
		iv.StakeholderIDs = existing.StakeholderIDs
	}
	return iv, nil
}

func (r *InterviewRepository) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	const q = `
UPDATE discovery_interview
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

func (r *InterviewRepository) replaceStakeholders(ctx context.Context, interviewID string, stakeholderIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM interview_stakeholders WHERE interview_id = $1;`, interviewID); err != nil {
		return err
	}
	const ins = `INSERT INTO interview_stakeholders (interview_id, stakeholder_id) VALUES ($1, $2);`
	for _, sid := range stakeholderIDs {
		if _, err := r.db.ExecContext(ctx, ins, interviewID, sid); err != nil {
			return err
		}
	}
	return nil
}

func (r *InterviewRepository) stakeholderIDs(ctx context.Context, interviewID string) ([]string, error) {
	const q = `SELECT stakeholder_id FROM interview_stakeholders WHERE interview_id = $1;`
	rows, err := r.db.QueryContext(ctx, q, interviewID)
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
