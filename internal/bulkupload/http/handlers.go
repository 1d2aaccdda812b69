package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/brightforge-labs/discovery-crm-backend/internal/api/http"
	"github.com/brightforge-labs/discovery-crm-backend/internal/auth"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/domain"
	"github.com/brightforge-labs/discovery-crm-backend/internal/bulkupload/service"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	svc *service.BulkUploadService
}

func Register(rg *gin.RouterGroup, svc *service.BulkUploadService) {
	h := &Handler{svc: svc}
	rg.POST("", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file exceeds the 10MB limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "failed to read uploaded file"})
		return
	}

	actor, _ := auth.Actor(c)
	result, err := h.svc.Process(c.Request.Context(), actor,
		fileHeader.Filename, data,
		domain.UploadType(c.PostForm("uploadType")),
		c.PostForm("clientId"), c.PostForm("projectId"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}
