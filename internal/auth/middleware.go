package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxClaims = "auth_claims"

// RequireAuth parses the bearer token and stores the actor claims in the
// request context. Requests without a valid token are rejected with 401.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := issuer.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxClaims, *claims)
		c.Next()
	}
}

// RequireScopes rejects the request with 403 unless the actor holds every
// named scope.
func RequireScopes(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Actor(c)
		if !ok || claims.AccessScopes == nil {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "access denied: missing access scopes"})
			c.Abort()
			return
		}

		if !claims.HasScopes(scopes...) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "access denied: insufficient access scopes"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Actor returns the authenticated claims set by RequireAuth.
func Actor(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
