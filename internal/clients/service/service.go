package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/clients/repository"
)

type ClientService struct {
	repo *repository.ClientRepository
	log  *zap.SugaredLogger
}

func NewClientService(repo *repository.ClientRepository, log *zap.SugaredLogger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

func (s *ClientService) Create(ctx context.Context, in domain.CreateClient, actor auth.Claims) (*domain.Client, error) {
	cl, err := s.repo.Create(ctx, in, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Infow("client created", "id", cl.ID, "code", cl.ClientCode, "by", actor.Email)
	return cl, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in domain.UpdateClient, actor auth.Claims) (*domain.Client, error) {
	return s.repo.Update(ctx, id, in, actor.UserID)
}

func (s *ClientService) GetSingle(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *ClientService) SoftDelete(ctx context.Context, id string, actor auth.Claims) (bool, error) {
	return s.repo.SoftDelete(ctx, id, actor.UserID)
}
