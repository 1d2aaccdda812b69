package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	clientsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/clients/repository"
	"github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/repository"
)

type StakeholderService struct {
	repo    *repository.StakeholderRepository
	clients *clientsrepo.ClientRepository
	log     *zap.SugaredLogger
}

func NewStakeholderService(repo *repository.StakeholderRepository, clients *clientsrepo.ClientRepository, log *zap.SugaredLogger) *StakeholderService {
	return &StakeholderService{repo: repo, clients: clients, log: log}
}

func (s *StakeholderService) Create(ctx context.Context, in domain.CreateStakeholder, actor auth.Claims) (*domain.Stakeholder, error) {
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	st, err := s.repo.Create(ctx, in, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Infow("stakeholder created", "id", st.ID, "client", st.ClientID, "by", actor.Email)
	return st, nil
}

func (s *StakeholderService) Update(ctx context.Context, id string, in domain.UpdateStakeholder, actor auth.Claims) (*domain.Stakeholder, error) {
	if in.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, *in.ClientID); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, in, actor.UserID)
}

func (s *StakeholderService) GetSingle(ctx context.Context, id string) (*domain.Stakeholder, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StakeholderService) List(ctx context.Context, clientID string) ([]domain.Stakeholder, error) {
	if clientID != "" {
		return s.repo.ListByClient(ctx, clientID)
	}
	return s.repo.List(ctx)
}

func (s *StakeholderService) SoftDelete(ctx context.Context, id string, actor auth.Claims) (bool, error) {
	return s.repo.SoftDelete(ctx, id, actor.UserID)
}
