package auth

import (
	"github.com/golang-jwt/jwt/v4"

	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

// Claims is the actor identity carried by every authenticated request.
// Services record it on writes but never re-authenticate it.
type Claims struct {
	UserID       string              `json:"sub"`
	Email        string              `json:"email"`
	Role         domain.Role         `json:"role"`
	AccessScopes domain.AccessScopes `json:"accessScopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScopes reports whether every required scope is granted.
func (c Claims) HasScopes(required ...string) bool {
	for _, scope := range required {
		if !c.AccessScopes[scope] {
			return false
		}
	}
	return true
}
