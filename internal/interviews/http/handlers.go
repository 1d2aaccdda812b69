package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/interviews/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/interviews/service"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

type Handler struct {
	svc *service.InterviewService
}

func Register(rg *gin.RouterGroup, svc *service.InterviewService) {
	h := &Handler{svc: svc}

	rg.POST("", auth.RequireScopes(usersdomain.ScopeCreateInterviews), h.create)
	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessInterviews), h.list)
	rg.GET("/:id", auth.RequireScopes(usersdomain.ScopeAccessInterviews), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateInterviews), h.update)
	rg.DELETE("/:id", auth.RequireScopes(usersdomain.ScopeDeleteInterviews), h.delete)
}

type createReq struct {
	Name                string    `json:"name"`
	Date                time.Time `json:"date"`
	GDriveID            *string   `json:"gdrive_id"`
	RequestDistillation *bool     `json:"request_distillation"`
	RequestCoaching     *bool     `json:"request_coaching"`
	RequestUserStories  *bool     `json:"request_user_stories"`
	ClientID            string    `json:"client_id"`
	ProjectID           string    `json:"project_id"`
	StakeholderIDs      []string  `json:"stakeholder_ids"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || req.Date.IsZero() ||
		strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	iv, err := h.svc.Create(c.Request.Context(), domain.CreateInterview{
		Name:                strings.TrimSpace(req.Name),
		Date:                req.Date,
		GDriveID:            req.GDriveID,
		RequestDistillation: req.RequestDistillation,
		RequestCoaching:     req.RequestCoaching,
		RequestUserStories:  req.RequestUserStories,
		ClientID:            req.ClientID,
		ProjectID:           req.ProjectID,
		StakeholderIDs:      req.StakeholderIDs,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "interview": iv})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("client_id"), c.Query("project_id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "interviews": items})
}

func (h *Handler) getSingle(c *gin.Context) {
	iv, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "interview": iv})
}

type updateReq struct {
	Name                *string    `json:"name"`
	Date                *time.Time `json:"date"`
	GDriveID            *string    `json:"gdrive_id"`
	RequestDistillation *bool      `json:"request_distillation"`
	RequestCoaching     *bool      `json:"request_coaching"`
	RequestUserStories  *bool      `json:"request_user_stories"`
	StakeholderIDs      []string   `json:"stakeholder_ids"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	iv, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateInterview{
		Name:                req.Name,
		Date:                req.Date,
		GDriveID:            req.GDriveID,
		RequestDistillation: req.RequestDistillation,
		RequestCoaching:     req.RequestCoaching,
		RequestUserStories:  req.RequestUserStories,
		StakeholderIDs:      req.StakeholderIDs,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "interview": iv})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	ok, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "interview not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
