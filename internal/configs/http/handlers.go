package http

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/configs/service"
	"github.com/brightforge-labs/discovery-crm-backend/internal/storage/postgres"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

// Handler wraps every config mutation in a transaction so the engine's
// two-write operations commit or roll back as a unit.
type Handler struct {
	svc *service.ConfigService
	db  *sql.DB
}

func Register(rg *gin.RouterGroup, svc *service.ConfigService, db *sql.DB) {
	h := &Handler{svc: svc, db: db}

	rg.POST("", auth.RequireScopes(usersdomain.ScopeCreateConfig), h.create)
	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessConfig), h.getAllPaginated)
	rg.GET("/:id", auth.RequireScopes(usersdomain.ScopeAccessConfig), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateConfig), h.update)
	rg.DELETE("/:id", auth.RequireScopes(usersdomain.ScopeDeleteConfig), h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	var created *domain.Config
	err := postgres.RunInTx(c.Request.Context(), h.db, func(tx *sql.Tx) error {
		var err error
		created, err = h.svc.Create(c.Request.Context(), tx, req, actor)
		return err
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "config": created})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.UpdateConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	var updated *domain.Config
	err := postgres.RunInTx(c.Request.Context(), h.db, func(tx *sql.Tx) error {
		var err error
		updated, err = h.svc.Update(c.Request.Context(), tx, c.Param("id"), req, actor)
		return err
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "config": updated})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	err := postgres.RunInTx(c.Request.Context(), h.db, func(tx *sql.Tx) error {
		return h.svc.SoftDelete(c.Request.Context(), tx, c.Param("id"), actor)
	})
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) getSingle(c *gin.Context) {
	cfg, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})
}

func (h *Handler) getAllPaginated(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var filter domain.ListFilter
	if v, ok := c.GetQuery("projectId"); ok && v != "" {
		filter.ProjectID = &v
	}
	if v, ok := c.GetQuery("version"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid version filter"})
			return
		}
		filter.Version = &n
	}
	if v, ok := c.GetQuery("is_latest"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid is_latest filter"})
			return
		}
		filter.IsLatest = &b
	}
	if v, ok := c.GetQuery("created_by"); ok && v != "" {
		filter.CreatedBy = &v
	}

	var sort *domain.Sort
	if field := c.Query("sortField"); field != "" {
		sort = &domain.Sort{Field: field, Order: c.DefaultQuery("sortOrder", "DESC")}
	}

	result, err := h.svc.GetAllPaginated(c.Request.Context(), page, limit, filter, sort)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": result})
}
