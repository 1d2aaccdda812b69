// Package service reconciles bulk spreadsheet uploads into clients,
// projects and stakeholders. Each upload runs as a single transaction:
// any bad row rolls back the whole file.
package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/domain"
	clientsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	projectsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	stakeholdersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type clientStore interface {
	FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*clientsdomain.Client, error)
	FindByCodeOrName(ctx context.Context, tx *sql.Tx, code, name string) (*clientsdomain.Client, error)
	CreateTx(ctx context.Context, tx *sql.Tx, in clientsdomain.CreateClient, actorID string) (*clientsdomain.Client, error)
}

type projectStore interface {
	FindByIDTx(ctx context.Context, tx *sql.Tx, id string) (*projectsdomain.Project, error)
	FindByName(ctx context.Context, tx *sql.Tx, name string) (*projectsdomain.Project, error)
	CreateTx(ctx context.Context, tx *sql.Tx, in projectsdomain.CreateProject, actorID string) (*projectsdomain.Project, error)
	LinkStakeholdersTx(ctx context.Context, tx *sql.Tx, projectID string, stakeholderIDs []string) error
}

type stakeholderStore interface {
	FindByEmailOrPhone(ctx context.Context, tx *sql.Tx, email, phone *string) (*stakeholdersdomain.Stakeholder, error)
	CreateTx(ctx context.Context, tx *sql.Tx, in stakeholdersdomain.CreateStakeholder, actorID string) (*stakeholdersdomain.Stakeholder, error)
	RefreshFieldsTx(ctx context.Context, tx *sql.Tx, id, name string, team, role *string, actorID string) (*stakeholdersdomain.Stakeholder, error)
}

// Archive retains a copy of the uploaded workbook after a successful run.
type Archive interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

type BulkUploadService struct {
	db           *sql.DB
	clients      clientStore
	projects     projectStore
	stakeholders stakeholderStore
	archive      Archive
	log          *zap.SugaredLogger
}

// NewBulkUploadService wires the reconciler. archive may be nil, in which
// case uploaded files are not retained.
func NewBulkUploadService(db *sql.DB, clients clientStore, projects projectStore, stakeholders stakeholderStore, archive Archive, log *zap.SugaredLogger) *BulkUploadService {
	return &BulkUploadService{
		db:           db,
		clients:      clients,
		projects:     projects,
		stakeholders: stakeholders,
		archive:      archive,
		log:          log,
	}
}

// Process parses the workbook and reconciles its rows according to
// uploadType. clientID is required for project-stakeholder uploads,
// projectID for stakeholder-only uploads.
func (s *BulkUploadService) Process(ctx context.Context, actor auth.Claims, filename string, data []byte, uploadType domain.UploadType, clientID, projectID string) (*domain.Result, error) {
	if !uploadType.Valid() {
		return nil, apperr.BadRequest("invalid upload type: %s", uploadType)
	}

	records, err := ParseWorkbook(data, uploadType)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &domain.Result{Message: "No valid data found in the file.", ProcessedRecords: 0}, nil
	}

	err = postgres.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		switch uploadType {
		case domain.TypeFull:
			return s.processFull(ctx, tx, records, actor.UserID)
		case domain.TypeProject:
			if clientID == "" {
				return apperr.BadRequest("clientId is required for project-stakeholder uploads")
			}
			return s.processProject(ctx, tx, records, actor.UserID, clientID)
		default:
			if projectID == "" {
				return apperr.BadRequest("projectId is required for stakeholder uploads")
			}
			return s.processStakeholder(ctx, tx, records, actor.UserID, projectID)
		}
	})
	if err != nil {
		return nil, err
	}

	result := &domain.Result{
		Message:          "Bulk upload completed successfully.",
		ProcessedRecords: len(records),
	}

	if s.archive != nil {
		key, err := s.archive.Store(ctx, filename, data)
		if err != nil {
			// The data is already committed; losing the archive copy is
			// not worth failing the request over.
			s.log.Warnw("bulk upload archive failed", "filename", filename, "error", err)
		} else {
			result.ArchiveKey = key
		}
	}

	s.log.Infow("bulk upload processed",
		"type", uploadType, "records", len(records), "actor_id", actor.UserID)
	return result, nil
}

func (s *BulkUploadService) processFull(ctx context.Context, tx *sql.Tx, records []domain.Record, actorID string) error {
	for _, record := range records {
		client, err := s.clients.FindByCodeOrName(ctx, tx, record.ClientCode, record.ClientName)
		if err != nil {
			return err
		}
		if client == nil {
			client, err = s.clients.CreateTx(ctx, tx, clientsdomain.CreateClient{
				Name:       record.ClientName,
				ClientCode: record.ClientCode,
			}, actorID)
			if err != nil {
				return err
			}
		} else if client.IsDeleted {
			return apperr.Conflict("client %s is deleted, cannot attach new data", client.Name)
		}

		if err := s.reconcileProject(ctx, tx, record, client.ID, actorID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BulkUploadService) processProject(ctx context.Context, tx *sql.Tx, records []domain.Record, actorID, clientID string) error {
	client, err := s.clients.FindByIDTx(ctx, tx, clientID)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := s.reconcileProject(ctx, tx, record, client.ID, actorID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BulkUploadService) processStakeholder(ctx context.Context, tx *sql.Tx, records []domain.Record, actorID, projectID string) error {
	project, err := s.projects.FindByIDTx(ctx, tx, projectID)
	if err != nil {
		return err
	}

	for _, record := range records {
		ids, err := s.findOrCreateStakeholders(ctx, tx, record.Stakeholders, project.ClientID, actorID)
		if err != nil {
			return err
		}
		if err := s.projects.LinkStakeholdersTx(ctx, tx, project.ID, ids); err != nil {
			return err
		}
	}
	return nil
}

// reconcileProject finds or creates the record's project under clientID,
// then reconciles and links its stakeholders.
func (s *BulkUploadService) reconcileProject(ctx context.Context, tx *sql.Tx, record domain.Record, clientID, actorID string) error {
	project, err := s.projects.FindByName(ctx, tx, record.ProjectName)
	if err != nil {
		return err
	}
	if project == nil {
		project, err = s.projects.CreateTx(ctx, tx, projectsdomain.CreateProject{
			Name:        record.ProjectName,
			Description: record.ProjectDescription,
			ClientID:    clientID,
		}, actorID)
		if err != nil {
			return err
		}
	} else if project.ClientID != clientID {
		return apperr.Conflict("project %s already exists and is linked to a different client", record.ProjectName)
	} else if project.IsDeleted {
		return apperr.Conflict("project %s is deleted, cannot attach new data", project.Name)
	}

	ids, err := s.findOrCreateStakeholders(ctx, tx, record.Stakeholders, clientID, actorID)
	if err != nil {
		return err
	}
	return s.projects.LinkStakeholdersTx(ctx, tx, project.ID, ids)
}

func (s *BulkUploadService) findOrCreateStakeholders(ctx context.Context, tx *sql.Tx, rows []domain.StakeholderRow, clientID, actorID string) ([]string, error) {
	var ids []string
	for _, row := range rows {
		email := row.Email
		existing, err := s.stakeholders.FindByEmailOrPhone(ctx, tx, &email, nil)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			created, err := s.stakeholders.CreateTx(ctx, tx, stakeholdersdomain.CreateStakeholder{
				Name:     row.Name,
				Email:    &email,
				Team:     optional(row.Team),
				Role:     optional(row.Role),
				ClientID: clientID,
			}, actorID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, created.ID)
			continue
		}

		if existing.IsDeleted {
			return nil, apperr.Conflict("stakeholder %s exists but is marked as deleted", email)
		}
		if existing.ClientID != clientID {
			return nil, apperr.Conflict("stakeholder %s belongs to a different client", email)
		}

		refreshed, err := s.stakeholders.RefreshFieldsTx(ctx, tx, existing.ID, row.Name, optional(row.Team), optional(row.Role), actorID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, refreshed.ID)
	}
	return ids, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
