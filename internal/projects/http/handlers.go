package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/projects/service"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

type Handler struct {
	svc *service.ProjectService
}

func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.POST("", auth.RequireScopes(usersdomain.ScopeCreateProjects), h.create)
	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessProjects), h.list)
	rg.GET("/:id", auth.RequireScopes(usersdomain.ScopeAccessProjects), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateProjects), h.update)
	rg.DELETE("/:id", auth.RequireScopes(usersdomain.ScopeDeleteProjects), h.delete)
}

type createReq struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ClientTeam     *string  `json:"client_team"`
	ClientID       string   `json:"client_id"`
	StakeholderIDs []string `json:"stakeholder_ids"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ClientID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	p, err := h.svc.Create(c.Request.Context(), domain.CreateProject{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		ClientTeam:     req.ClientTeam,
		ClientID:       req.ClientID,
		StakeholderIDs: req.StakeholderIDs,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) getSingle(c *gin.Context) {
	p, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type updateReq struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	ClientTeam     *string  `json:"client_team"`
	ClientID       *string  `json:"client_id"`
	StakeholderIDs []string `json:"stakeholder_ids"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateProject{
		Name:           req.Name,
		Description:    req.Description,
		ClientTeam:     req.ClientTeam,
		ClientID:       req.ClientID,
		StakeholderIDs: req.StakeholderIDs,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	ok, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
