package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brightforge-labs/discovery-crm-backend/internal/apperr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperr.NotFound("config not found"), http.StatusNotFound, "config not found"},
		{"bad request", apperr.BadRequest("invalid upload type"), http.StatusBadRequest, "invalid upload type"},
		{"conflict", apperr.Conflict("version clash"), http.StatusConflict, "version clash"},
		{"unauthorized", apperr.Unauthorized("no token"), http.StatusUnauthorized, "no token"},
		{"forbidden", apperr.Forbidden("no scope"), http.StatusForbidden, "no scope"},
		{"plain errors are 500 and hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"ok":false`)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}
