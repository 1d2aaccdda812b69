package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
	"github.com/brightforge-labs/discovery-crm-backend/internal/settings/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
)

type settingsRepo interface {
	FindSingle(ctx context.Context, q postgres.DBTX) (*domain.AdminSettings, error)
	Update(ctx context.Context, id string, in domain.UpdateAdminSettings, actorID string) (*domain.AdminSettings, error)
}

type AdminSettingsService struct {
	repo settingsRepo
	log  *zap.SugaredLogger
}

func NewAdminSettingsService(repo settingsRepo, log *zap.SugaredLogger) *AdminSettingsService {
	return &AdminSettingsService{repo: repo, log: log}
}

func (s *AdminSettingsService) GetSingle(ctx context.Context, q postgres.DBTX) (*domain.AdminSettings, error) {
	return s.repo.FindSingle(ctx, q)
}

func (s *AdminSettingsService) Update(ctx context.Context, id string, in domain.UpdateAdminSettings, actorID string) (*domain.AdminSettings, error) {
	updated, err := s.repo.Update(ctx, id, in, actorID)
	if err != nil {
		return nil, err
	}
	s.log.Infow("admin settings updated", "settings_id", updated.ID, "actor_id", actorID)
	return updated, nil
}

// ValidateDriveID checks that the service account can see the given Drive
// file. Any failure, auth or lookup, means the reference is unusable for us.
func (s *AdminSettingsService) ValidateDriveID(ctx context.Context, fileID, clientEmail, privateKey string) error {
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(normalizePrivateKey(privateKey)),
		Scopes:     []string{drive.DriveReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return apperr.BadRequest("invalid Google Drive credentials")
	}
	if _, err := svc.Files.Get(fileID).Fields("id").Context(ctx).Do(); err != nil {
		s.log.Warnw("drive file lookup failed", "file_id", fileID, "error", err)
		return apperr.BadRequest("invalid or inaccessible Google Drive ID: %s", fileID)
	}
	return nil
}

// Keys stored through JSON round-trips often carry literal \n sequences.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
