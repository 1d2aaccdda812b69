package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	clientsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/clients/repository"
	"github.com/brightforge-labs/discovery-crm-backend/internal/interviews/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/interviews/repository"
	projectsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/projects/repository"
	stakeholdersrepo "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/repository"
)

type InterviewService struct {
	repo         *repository.InterviewRepository
	clients      *clientsrepo.ClientRepository
	projects     *projectsrepo.ProjectRepository
	stakeholders *stakeholdersrepo.StakeholderRepository
	log          *zap.SugaredLogger
}

func NewInterviewService(
	repo *repository.InterviewRepository,
	clients *clientsrepo.ClientRepository,
	projects *projectsrepo.ProjectRepository,
	stakeholders *stakeholdersrepo.StakeholderRepository,
	log *zap.SugaredLogger,
) *InterviewService {
	return &InterviewService{repo: repo, clients: clients, projects: projects, stakeholders: stakeholders, log: log}
}

func (s *InterviewService) Create(ctx context.Context, in domain.CreateInterview, actor auth.Claims) (*domain.Interview, error) {
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != in.ClientID {
		return nil, apperr.BadRequest("project %s does not belong to client %s", in.ProjectID, in.ClientID)
	}

	if err := s.validateStakeholders(ctx, in.ClientID, in.StakeholderIDs); err != nil {
		return nil, err
	}

	iv, err := s.repo.Create(ctx, in, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Infow("interview created", "id", iv.ID, "project", iv.ProjectID, "by", actor.Email)
	return iv, nil
}

func (s *InterviewService) validateStakeholders(ctx context.Context, clientID string, stakeholderIDs []string) error {
	if len(stakeholderIDs) == 0 {
		return nil
	}

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

func (s *InterviewService) Update(ctx context.Context, id string, in domain.UpdateInterview, actor auth.Claims) (*domain.Interview, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.StakeholderIDs != nil {
		if err := s.validateStakeholders(ctx, existing.ClientID, in.StakeholderIDs); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, in, actor.UserID)
}

func (s *InterviewService) GetSingle(ctx context.Context, id string) (*domain.Interview, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *InterviewService) List(ctx context.Context, clientID, projectID string) ([]domain.Interview, error) {
	return s.repo.List(ctx, clientID, projectID)
}

func (s *InterviewService) SoftDelete(ctx context.Context, id string, actor auth.Claims) (bool, error) {
	return s.repo.SoftDelete(ctx, id, actor.UserID)
}
