package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightforge-labs/discovery-crm-backend/internal/users/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "user1@example.com",
		Role:  domain.RoleAdmin,
		AccessScopes: domain.AccessScopes{
			domain.ScopeAccessConfig: true,
			domain.ScopeCreateConfig: true,
		},
	}
}

func TestTokenIssuer(t *testing.T) {
	t.Run("round trip preserves identity and scopes", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", time.Hour)

		token, err := issuer.Issue(testUser())
		require.NoError(t, err)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "user1@example.com", claims.Email)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		assert.True(t, claims.HasScopes(domain.ScopeAccessConfig, domain.ScopeCreateConfig))
		assert.False(t, claims.HasScopes(domain.ScopeDeleteConfig))
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, err := NewTokenIssuer("secret-a", time.Hour).Issue(testUser())
		require.NoError(t, err)

		_, err = NewTokenIssuer("secret-b", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", -time.Minute)
		token, err := issuer.Issue(testUser())
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewTokenIssuer("test-secret", time.Hour).Parse("not-a-token")
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
