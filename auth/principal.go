/*
principal.go - Signed-in identity from token claims

The portal never verifies token signatures: the access token is only
presented to Graph, which enforces validity. Claims are read here purely
to label the session with a directory object id and display identity,
the same information MSAL exposed as account.localAccountId client-side.
*/
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoPrincipal is returned when a token carries no usable identity claims.
var ErrNoPrincipal = errors.New("token carries no principal claims")

// Principal identifies the signed-in user.
type Principal struct {
	ID          string // directory object id (oid claim)
	DisplayName string // name claim
	Username    string // preferred_username / upn claim
}

// PrincipalFromToken extracts the principal from a raw access token
// without signature verification.
func PrincipalFromToken(raw string) (Principal, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Principal{}, fmt.Errorf("parse access token: %w", err)
	}

	p := Principal{
		ID:          stringClaim(claims, "oid"),
		DisplayName: stringClaim(claims, "name"),
		Username:    stringClaim(claims, "preferred_username"),
	}
	if p.ID == "" {
		p.ID = stringClaim(claims, "sub")
	}
	if p.Username == "" {
		p.Username = stringClaim(claims, "upn")
	}
	if p.ID == "" {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
