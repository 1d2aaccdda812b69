package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/users/repository"
)

// UserService handles user management business logic.
type UserService struct {
	repo *repository.UserRepository
	log  *zap.SugaredLogger
}

func NewUserService(repo *repository.UserRepository, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Create(ctx context.Context, in domain.CreateUser, actor auth.Claims) (*domain.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, in, hash, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Infow("user created", "id", u.ID, "email", u.Email, "by", actor.Email)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in domain.UpdateUser, actor auth.Claims) (*domain.User, error) {
	var hash *string
	if in.Password != nil {
		h, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	return s.repo.Update(ctx, id, in, hash, actor.UserID)
}

func (s *UserService) GetSingle(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) SoftDelete(ctx context.Context, id string, actor auth.Claims) (bool, error) {
	ok, err := s.repo.SoftDelete(ctx, id, actor.UserID)
	if err == nil && ok {
		s.log.Infow("user deleted", "id", id, "by", actor.Email)
	}
	return ok, err
}
