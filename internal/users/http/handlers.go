package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/users/service"
)

type Handler struct {
	svc *service.UserService
}

func Register(rg *gin.RouterGroup, svc *service.UserService) {
	h := &Handler{svc: svc}

	rg.POST("", auth.RequireScopes(domain.ScopeCreateUsers), h.create)
	rg.GET("", auth.RequireScopes(domain.ScopeAccessUsers), h.list)
	rg.GET("/:id", auth.RequireScopes(domain.ScopeAccessUsers), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(domain.ScopeUpdateUsers), h.update)
	rg.DELETE("/:id", auth.RequireScopes(domain.ScopeDeleteUsers), h.delete)
}

type createReq struct {
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	Role         domain.Role         `json:"role"`
	AccessScopes domain.AccessScopes `json:"access_scopes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	u, err := h.svc.Create(c.Request.Context(), domain.CreateUser{
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		Role:         req.Role,
		AccessScopes: req.AccessScopes,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": items})
}

func (h *Handler) getSingle(c *gin.Context) {
	u, err := h.svc.GetSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

type updateReq struct {
	Email        *string             `json:"email"`
	Password     *string             `json:"password"`
	Role         *domain.Role        `json:"role"`
	AccessScopes domain.AccessScopes `json:"access_scopes"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateUser{
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		AccessScopes: req.AccessScopes,
	}, actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) delete(c *gin.Context) {
	actor, _ := auth.Actor(c)
	ok, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
