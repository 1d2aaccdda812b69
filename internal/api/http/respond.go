package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
)

// RespondError maps a service error onto an HTTP status with a JSON body.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"ok": false, "error": apperr.MessageOf(err)})
}
