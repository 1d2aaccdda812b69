package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	clientsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/clients/repository"
	"github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/projects/repository"
	stakeholdersrepo "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/repository"
)

type ProjectService struct {
	repo         *repository.ProjectRepository
	clients      *clientsrepo.ClientRepository
	stakeholders *stakeholdersrepo.StakeholderRepository
	log          *zap.SugaredLogger
}

func NewProjectService(
	repo *repository.ProjectRepository,
	clients *clientsrepo.ClientRepository,
	stakeholders *stakeholdersrepo.StakeholderRepository,
	log *zap.SugaredLogger,
) *ProjectService {
	return &ProjectService{repo: repo, clients: clients, stakeholders: stakeholders, log: log}
}

// validateStakeholders checks that every requested stakeholder belongs to
// the client.
func (s *ProjectService) validateStakeholders(ctx context.Context, clientID string, stakeholderIDs []string) error {
	available, err := s.stakeholders.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}

	valid := make(map[string]bool, len(available))
	for _, st := range available {
		valid[st.ID] = true
	}

	for _, id := range stakeholderIDs {
		if !valid[id] {
			return apperr.NotFound("stakeholder %s is not associated with client %s", id, clientID)
		}
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, in domain.CreateProject, actor auth.Claims) (*domain.Project, error) {
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	if err := s.validateStakeholders(ctx, in.ClientID, in.StakeholderIDs); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, in, actor.UserID)
	if err != nil {
		return nil, err
	}

	if len(in.StakeholderIDs) > 0 {
		if err := s.repo.ReplaceStakeholders(ctx, p.ID, in.StakeholderIDs); err != nil {
			return nil, err
		}
	}

	s.log.Infow("project created", "id", p.ID, "name", p.Name, "by", actor.Email)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in domain.UpdateProject, actor auth.Claims) (*domain.Project, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clientID := existing.ClientID
	clientChanged := in.ClientID != nil && *in.ClientID != existing.ClientID
	if clientChanged {
		if _, err := s.clients.FindByID(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		// Moving a project to another client invalidates the old
		// stakeholder assignment, so a fresh one is required.
		if len(in.StakeholderIDs) == 0 {
			return nil, apperr.BadRequest("stakeholders must be provided when changing the client")
		}
		clientID = *in.ClientID
	}

	if in.StakeholderIDs != nil {
		if len(in.StakeholderIDs) == 0 {
			return nil, apperr.BadRequest("at least one stakeholder must be assigned")
		}
		if err := s.validateStakeholders(ctx, clientID, in.StakeholderIDs); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.Update(ctx, id, in, actor.UserID)
	if err != nil {
		return nil, err
	}

	if in.StakeholderIDs != nil {
		if err := s.repo.ReplaceStakeholders(ctx, p.ID, in.StakeholderIDs); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (s *ProjectService) GetSingle(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, clientID string) ([]domain.Project, error) {
	return s.repo.List(ctx, clientID)
}

func (s *ProjectService) SoftDelete(ctx context.Context, id string, actor auth.Claims) (bool, error) {
	return s.repo.SoftDelete(ctx, id, actor.UserID)
}
