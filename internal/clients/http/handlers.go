package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/clients/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/clients/service"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

type Handler struct {
	svc *service.ClientService
}

func Register(rg *gin.RouterGroup, svc *service.ClientService) {
	h := &Handler{svc: svc}

	rg.POST("", auth.RequireScopes(usersdomain.ScopeCreateClients), h.create)
	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessClients), h.list)
	rg.GET("/:id", auth.RequireScopes(usersdomain.ScopeAccessClients), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateClients), h.update)
	rg.DELETE("/:id", auth.RequireScopes(usersdomain.ScopeDeleteClients), h.delete)
}

type createReq struct {
	Name       string `json:"name"`
	ClientCode string `json:"client_code"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ClientCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	cl, err := h.svc.Create(c.Request.Context(), domain.CreateClient{
		Name:       strings.TrimSpace(req.Name),
		ClientCode: strings.TrimSpace(req.ClientCode),
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "client": cl})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": items})
}

func (h *Handler) getSingle(c *gin.Context) {
	cl, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "client": cl})
}

type updateReq struct {
	Name       *string `json:"name"`
	ClientCode *string `json:"client_code"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	cl, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateClient{
		Name:       req.Name,
		ClientCode: req.ClientCode,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "client": cl})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	ok, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
