package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/stakeholders/service"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

type Handler struct {
	svc *service.StakeholderService
}

func Register(rg *gin.RouterGroup, svc *service.StakeholderService) {
	h := &Handler{svc: svc}

	rg.POST("", auth.RequireScopes(usersdomain.ScopeCreateStakeholders), h.create)
	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessStakeholders), h.list)
	rg.GET("/:id", auth.RequireScopes(usersdomain.ScopeAccessStakeholders), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateStakeholders), h.update)
	rg.DELETE("/:id", auth.RequireScopes(usersdomain.ScopeDeleteStakeholders), h.delete)
}

type createReq struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Team     *string `json:"team"`
	ClientID string  `json:"client_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ClientID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	st, err := h.svc.Create(c.Request.Context(), domain.CreateStakeholder{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Team:     req.Team,
		ClientID: req.ClientID,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "stakeholder": st})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stakeholders": items})
}

func (h *Handler) getSingle(c *gin.Context) {
	st, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stakeholder": st})
}

type updateReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Team     *string `json:"team"`
	ClientID *string `json:"client_id"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	st, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateStakeholder{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Team:     req.Team,
		ClientID: req.ClientID,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stakeholder": st})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	ok, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "stakeholder not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
