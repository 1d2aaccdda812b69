package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

func newGuardedRouter(issuer *TokenIssuer, scopes ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", RequireAuth(issuer))
	if len(scopes) > 0 {
		group.Use(RequireScopes(scopes...))
	}
	group.GET("/ping", func(c *gin.Context) {
		claims, ok := Actor(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "sub": claims.UserID})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("missing token is 401", func(t *testing.T) {
		w := doGet(newGuardedRouter(issuer), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		w := doGet(newGuardedRouter(issuer), "bogus")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches the handler with claims set", func(t *testing.T) {
		token, err := issuer.Issue(testUser())
		require.NoError(t, err)

		w := doGet(newGuardedRouter(issuer), token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sub":"user-1"`)
	})
}

func TestRequireScopes(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("grants access when every scope is held", func(t *testing.T) {
		token, err := issuer.Issue(testUser())
		require.NoError(t, err)

		r := newGuardedRouter(issuer, domain.ScopeAccessConfig)
		assert.Equal(t, http.StatusOK, doGet(r, token).Code)
	})

	t.Run("rejects a missing scope with 403", func(t *testing.T) {
		token, err := issuer.Issue(testUser())
		require.NoError(t, err)

		r := newGuardedRouter(issuer, domain.ScopeAccessConfig, domain.ScopeDeleteConfig)
		assert.Equal(t, http.StatusForbidden, doGet(r, token).Code)
	})

	t.Run("rejects a user with no scopes at all", func(t *testing.T) {
		u := testUser()
		u.AccessScopes = nil
		token, err := issuer.Issue(u)
		require.NoError(t, err)

		r := newGuardedRouter(issuer, domain.ScopeAccessConfig)
		assert.Equal(t, http.StatusForbidden, doGet(r, token).Code)
	})
}
