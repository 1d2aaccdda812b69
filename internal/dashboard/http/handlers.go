package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/service"
)

type Handler struct {
	svc *service.DashboardService
}

func Register(rg *gin.RouterGroup, svc *service.DashboardService) {
	h := &Handler{svc: svc}
	rg.GET("/analytics", h.getAnalytics)
}

func (h *Handler) getAnalytics(c *gin.Context) {
	filter := domain.Filter{ClientID: c.Query("clientId")}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	if (filter.From == nil) != (filter.To == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "from and to must be supplied together"})
		return
	}

	analytics, err := h.svc.GetAnalytics(c.Request.Context(), filter)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "analytics": analytics})
}
