package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestPrincipalFromToken_StandardClaims(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"oid":                "obj-123",
		"name":               "Ada Lovelace",
		"preferred_username": "ada@contoso.com",
	})

	p, err := PrincipalFromToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "obj-123", p.ID)
	assert.Equal(t, "Ada Lovelace", p.DisplayName)
	assert.Equal(t, "ada@contoso.com", p.Username)
}

func TestPrincipalFromToken_Fallbacks(t *testing.T) {
	// Tokens from some tenants carry sub/upn instead of oid/preferred_username.
	raw := signedToken(t, jwt.MapClaims{
		"sub": "sub-9",
		"upn": "ada@contoso.com",
	})

	p, err := PrincipalFromToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub-9", p.ID)
	assert.Equal(t, "ada@contoso.com", p.Username)
	assert.Empty(t, p.DisplayName)
}

func TestPrincipalFromToken_NoIdentity(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"scp": "User.Read"})

	_, err := PrincipalFromToken(raw)
	assert.ErrorIs(t, err, ErrNoPrincipal)
}

func TestPrincipalFromToken_Garbage(t *testing.T) {
	_, err := PrincipalFromToken("not-a-jwt")
	assert.Error(t, err)
}
