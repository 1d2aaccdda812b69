package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/config"
	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/api/http/middleware"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"

	bulkuploadhttp "github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/http"
	bulkuploadservice "github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/service"
	clientshttp "github.com/brightforge-labs/discovery-crm-backend/internal/clients/http"
	clientsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/clients/repository"
	clientsservice "github.com/brightforge-labs/discovery-crm-backend/internal/clients/service"
	configshttp "github.com/brightforge-labs/discovery-crm-backend/internal/configs/http"
	configsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/configs/repository"
	configsservice "github.com/brightforge-labs/discovery-crm-backend/internal/configs/service"
	dashboardhttp "github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/http"
	dashboardservice "github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/service"
	interviewshttp "github.com/brightforge-labs/discovery-crm-backend/internal/interviews/http"
	interviewsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/interviews/repository"
	interviewsservice "github.com/brightforge-labs/discovery-crm-backend/internal/interviews/service"
	projectshttp "github.com/brightforge-labs/discovery-crm-backend/internal/projects/http"
	projectsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/projects/repository"
	projectsservice "github.com/brightforge-labs/discovery-crm-backend/internal/projects/service"
	settingshttp "github.com/brightforge-labs/discovery-crm-backend/internal/settings/http"
	settingsrepo "github.com/brightforge-labs/discovery-crm-backend/internal/settings/repository"
	settingsservice "github.com/brightforge-labs/discovery-crm-backend/internal/settings/service"
	stakeholdershttp "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/http"
	stakeholdersrepo "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/repository"
	stakeholdersservice "github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/service"
	usershttp "github.com/brightforge-labs/discovery-crm-backend/internal/users/http"
	usersrepo "github.com/brightforge-labs/discovery-crm-backend/internal/users/repository"
	usersservice "github.com/brightforge-labs/discovery-crm-backend/internal/users/service"
)

type RouterDeps struct {
	Config  *config.Config
	DB      *sql.DB
	Pool    *pgxpool.Pool
	Cache   *redis.Client
	Archive bulkuploadservice.Archive
	Log     *zap.SugaredLogger
}

// Services holds the long-lived services a caller may want outside the
// router, such as the scheduler's dashboard handle.
type Services struct {
	Dashboard *dashboardservice.DashboardService
}

func BuildRouter(dep RouterDeps) (*gin.Engine, *Services) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler("discovery-crm-backend", dep.Config.App.Version, dep.Pool, dep.Cache)
	healthHandler.RegisterRoutes(r)

	userRepo := usersrepo.NewUserRepository(dep.DB)
	clientRepo := clientsrepo.NewClientRepository(dep.DB)
	stakeholderRepo := stakeholdersrepo.NewStakeholderRepository(dep.DB)
	projectRepo := projectsrepo.NewProjectRepository(dep.DB)
	interviewRepo := interviewsrepo.NewInterviewRepository(dep.DB)
	configRepo := configsrepo.NewConfigRepository(dep.DB)
	settingsRepo := settingsrepo.NewAdminSettingsRepository(dep.DB)

	issuer := auth.NewTokenIssuer(dep.Config.JWT.Secret, dep.Config.JWT.TTL)

	userSvc := usersservice.NewUserService(userRepo, dep.Log)
	clientSvc := clientsservice.NewClientService(clientRepo, dep.Log)
	stakeholderSvc := stakeholdersservice.NewStakeholderService(stakeholderRepo, clientRepo, dep.Log)
	projectSvc := projectsservice.NewProjectService(projectRepo, clientRepo, stakeholderRepo, dep.Log)
	interviewSvc := interviewsservice.NewInterviewService(interviewRepo, clientRepo, projectRepo, stakeholderRepo, dep.Log)
	settingsSvc := settingsservice.NewAdminSettingsService(settingsRepo, dep.Log)
	configSvc := configsservice.NewConfigService(configRepo, projectRepo, settingsSvc, dep.Log)
	dashboardSvc := dashboardservice.NewDashboardService(interviewRepo, projectRepo, dep.Cache, 24*time.Hour, dep.Log)
	bulkUploadSvc := bulkuploadservice.NewBulkUploadService(dep.DB, clientRepo, projectRepo, stakeholderRepo, dep.Archive, dep.Log)

	api := r.Group("/api/v1")

	authHandler := auth.NewHandler(userRepo, issuer, dep.Log)
	authHandler.Register(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(auth.RequireAuth(issuer))

	usershttp.Register(protected.Group("/users"), userSvc)
	clientshttp.Register(protected.Group("/clients"), clientSvc)
	stakeholdershttp.Register(protected.Group("/stakeholders"), stakeholderSvc)
	projectshttp.Register(protected.Group("/projects"), projectSvc)
	interviewshttp.Register(protected.Group("/interviews"), interviewSvc)
	configshttp.Register(protected.Group("/config"), configSvc, dep.DB)
	settingshttp.Register(protected.Group("/admin-settings"), settingsSvc)
	dashboardhttp.Register(protected.Group("/dashboard"), dashboardSvc)
	bulkuploadhttp.Register(protected.Group("/bulk-upload"), bulkUploadSvc)

	return r, &Services{Dashboard: dashboardSvc}
}
