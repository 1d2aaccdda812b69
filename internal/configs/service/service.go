// Package service implements the configuration versioning engine. Writes
// are copy-on-write: update retires the current row and appends the next
// version; softDelete retires a row and promotes its immediate predecessor
// when the deleted row was latest.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/repository"
	projectsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	settingsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/settings/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type configRepo interface {
	FindByID(ctx context.Context, q postgres.DBTX, id string) (*domain.Config, error)
	FindActiveByID(ctx context.Context, q postgres.DBTX, id string) (*domain.Config, error)
	ScopeOccupied(ctx context.Context, q postgres.DBTX, projectID *string) (bool, error)
	FindPrevious(ctx context.Context, q postgres.DBTX, projectID *string, version int) (*domain.Config, error)
	Insert(ctx context.Context, q postgres.DBTX, in repository.InsertConfig) (*domain.Config, error)
	MarkNotLatest(ctx context.Context, q postgres.DBTX, id string) error
	MarkLatest(ctx context.Context, q postgres.DBTX, id string) error
	MarkDeleted(ctx context.Context, q postgres.DBTX, id, actorID string) error
	FindAllPaginated(ctx context.Context, q postgres.DBTX, filter domain.ListFilter, sort *domain.Sort, page, limit int) ([]*domain.Config, int, error)
}

// projectDirectory resolves a project with its client fields and whether
// it already owns a configuration lineage.
type projectDirectory interface {
	FindDirectoryEntry(ctx context.Context, q postgres.DBTX, id string) (*projectsdomain.DirectoryEntry, error)
}

// credentialSource supplies the service-account credentials used to check
// externally referenced Drive files.
type credentialSource interface {
	GetSingle(ctx context.Context, q postgres.DBTX) (*settingsdomain.AdminSettings, error)
	ValidateDriveID(ctx context.Context, fileID, clientEmail, privateKey string) error
}

type ConfigService struct {
	repo     configRepo
	projects projectDirectory
	creds    credentialSource
	log      *zap.SugaredLogger
}

func NewConfigService(repo configRepo, projects projectDirectory, creds credentialSource, log *zap.SugaredLogger) *ConfigService {
	return &ConfigService{repo: repo, projects: projects, creds: creds, log: log}
}

// Create starts a new lineage at version 1. The scope (project, or global
// when projectID is absent) must not already have a non-deleted lineage.
func (s *ConfigService) Create(ctx context.Context, q postgres.DBTX, in domain.CreateConfig, actor auth.Claims) (*domain.Config, error) {
	projectID := normalizeID(in.ProjectID)

	var dir *projectsdomain.DirectoryEntry
	if projectID != nil {
		var err error
		dir, err = s.projects.FindDirectoryEntry(ctx, q, *projectID)
		if err != nil {
			return nil, err
		}
		if dir.HasConfig {
			return nil, apperr.BadRequest("project with ID %s already has a config, you can update it instead and it will be versioned automatically", *projectID)
		}
	} else {
		occupied, err := s.repo.ScopeOccupied(ctx, q, nil)
		if err != nil {
			return nil, err
		}
		if occupied {
			return nil, apperr.BadRequest("a global config already exists, you can update it instead and it will be versioned automatically")
		}
	}

	if err := s.validateTrackerID(ctx, q, in.InterviewTrackerGDriveID); err != nil {
		return nil, err
	}

	payload := domain.Merge(domain.DefaultPayload(), in.PayloadInput)
	stampScope(&payload, dir)

	created, err := s.repo.Insert(ctx, q, repository.InsertConfig{
		ProjectID:     projectID,
		Version:       1,
		Payload:       payload,
		ChangeSummary: in.ChangeSummary,
		CreatedBy:     &actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("config created", "config_id", created.ID, "project_id", projectID, "actor_id", actor.UserID)
	return created, nil
}

// Update appends the next version. The current row is marked not-latest
// and a new row is inserted carrying forward any payload fields the caller
// did not override. Supplying a different projectID transfers the lineage
// to that project, restarting at version 1; the target scope must be empty.
func (s *ConfigService) Update(ctx context.Context, q postgres.DBTX, id string, in domain.UpdateConfig, actor auth.Claims) (*domain.Config, error) {
	existing, err := s.repo.FindActiveByID(ctx, q, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateTrackerID(ctx, q, in.InterviewTrackerGDriveID); err != nil {
		return nil, err
	}

	newProjectID := normalizeID(in.ProjectID)
	scopeChanged := newProjectID != nil &&
		(existing.ProjectID == nil || *newProjectID != *existing.ProjectID)

	if scopeChanged && existing.Global() {
		return nil, apperr.BadRequest("the global config cannot be moved to a project scope")
	}

	if err := s.repo.MarkNotLatest(ctx, q, existing.ID); err != nil {
		return nil, err
	}

	targetProjectID := existing.ProjectID
	newVersion := existing.Version + 1
	var dir *projectsdomain.DirectoryEntry

	if scopeChanged {
		dir, err = s.projects.FindDirectoryEntry(ctx, q, *newProjectID)
		if err != nil {
			return nil, err
		}
		if dir.HasConfig {
			return nil, apperr.BadRequest("project with ID %s already has a config, you can update it instead and it will be versioned automatically", *newProjectID)
		}
		targetProjectID = newProjectID
		newVersion = 1
	} else if existing.ProjectID != nil {
		dir, err = s.projects.FindDirectoryEntry(ctx, q, *existing.ProjectID)
		if err != nil {
			return nil, err
		}
	}

	payload := domain.Merge(existing.Payload, in.PayloadInput)
	stampScope(&payload, dir)

	created, err := s.repo.Insert(ctx, q, repository.InsertConfig{
		ProjectID:     targetProjectID,
		Version:       newVersion,
		Payload:       payload,
		ChangeSummary: in.ChangeSummary,
		CreatedBy:     existing.CreatedBy,
		UpdatedBy:     &actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("config updated", "config_id", created.ID, "previous_id", existing.ID,
		"version", created.Version, "actor_id", actor.UserID)
	return created, nil
}

// SoftDelete retires a version. When the deleted row was latest, the row
// at exactly version-1 in the same scope is promoted if it is still
// available; otherwise the scope is left with no latest config. Deeper
// versions are never considered.
func (s *ConfigService) SoftDelete(ctx context.Context, q postgres.DBTX, id string, actor auth.Claims) error {
	existing, err := s.repo.FindActiveByID(ctx, q, id)
	if err != nil {
		return err
	}

	if err := s.repo.MarkDeleted(ctx, q, existing.ID, actor.UserID); err != nil {
		return err
	}

	if existing.IsLatest {
		previous, err := s.repo.FindPrevious(ctx, q, existing.ProjectID, existing.Version-1)
		if err != nil {
			return err
		}
		if previous != nil {
			if err := s.repo.MarkLatest(ctx, q, previous.ID); err != nil {
				return err
			}
			s.log.Infow("config promoted", "config_id", previous.ID, "version", previous.Version)
		}
	}

	s.log.Infow("config deleted", "config_id", existing.ID, "actor_id", actor.UserID)
	return nil
}

// GetSingle returns a version row, deleted or not, with its project and
// actor identities hydrated.
func (s *ConfigService) GetSingle(ctx context.Context, id string) (*domain.Config, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *ConfigService) GetAllPaginated(ctx context.Context, page, limit int, filter domain.ListFilter, sort *domain.Sort) (*domain.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	items, total, err := s.repo.FindAllPaginated(ctx, nil, filter, sort, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &domain.Page{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// validateTrackerID checks a caller-supplied Drive tracker reference
// against the stored service-account credentials. A blank or absent value
// skips validation.
func (s *ConfigService) validateTrackerID(ctx context.Context, q postgres.DBTX, trackerID *string) error {
	if trackerID == nil || strings.TrimSpace(*trackerID) == "" {
		return nil
	}

	settings, err := s.creds.GetSingle(ctx, q)
	if err != nil {
		return err
	}
	if settings.ClientEmail == "" || settings.PrivateKey == "" {
		return apperr.BadRequest("missing Google credentials in admin settings")
	}
	return s.creds.ValidateDriveID(ctx, strings.TrimSpace(*trackerID), settings.ClientEmail, settings.PrivateKey)
}

// stampScope writes the denormalized project fields into the payload; a
// nil entry means the global scope, which keeps them empty.
func stampScope(p *domain.Payload, dir *projectsdomain.DirectoryEntry) {
	if dir == nil {
		p.Client = ""
		p.ClientCode = ""
		p.ProjectName = ""
		p.ProjectDesc = ""
		return
	}
	p.Client = dir.ClientName
	p.ClientCode = dir.ClientCode
	p.ProjectName = dir.Name
	p.ProjectDesc = dir.Description
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
