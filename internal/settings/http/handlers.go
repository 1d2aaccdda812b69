package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/settings/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/settings/service"
	usersdomain "github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

type Handler struct {
	svc *service.AdminSettingsService
}

func Register(rg *gin.RouterGroup, svc *service.AdminSettingsService) {
	h := &Handler{svc: svc}

	rg.GET("", auth.RequireScopes(usersdomain.ScopeAccessAdminSettings), h.getSingle)
	rg.PUT("/:id", auth.RequireScopes(usersdomain.ScopeUpdateAdminSettings), h.update)
}

func (h *Handler) getSingle(c *gin.Context) {
	s, err := h.svc.GetSingle(c.Request.Context(), nil)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

type updateReq struct {
	Type                    *string `json:"type"`
	ProjectID               *string `json:"project_id"`
	PrivateKeyID            *string `json:"private_key_id"`
	PrivateKey              *string `json:"private_key"`
	ClientEmail             *string `json:"client_email"`
	ClientID                *string `json:"client_id"`
	AuthURI                 *string `json:"auth_uri"`
	TokenURI                *string `json:"token_uri"`
	AuthProviderX509CertURL *string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       *string `json:"client_x509_cert_url"`
	UniverseDomain          *string `json:"universe_domain"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	actor, _ := auth.Actor(c)
	s, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateAdminSettings{
		Type:                    req.Type,
		ProjectID:               req.ProjectID,
		PrivateKeyID:            req.PrivateKeyID,
		PrivateKey:              req.PrivateKey,
		ClientEmail:             req.ClientEmail,
		ClientID:                req.ClientID,
		AuthURI:                 req.AuthURI,
		TokenURI:                req.TokenURI,
		AuthProviderX509CertURL: req.AuthProviderX509CertURL,
		ClientX509CertURL:       req.ClientX509CertURL,
		UniverseDomain:          req.UniverseDomain,
	}, actor.UserID)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}
