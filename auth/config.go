/*
Package auth is the portal's token provider: the OAuth2 authorization-code
flow against Azure AD, in-memory sessions, and principal extraction.

PURPOSE:
  The browser original signed users in with an MSAL popup and refreshed
  tokens silently. Server-side, the same responsibilities land here:
  redirect to the authority, exchange the code, hold the token per
  session, and refresh it silently on demand.

KEY CONCEPTS IN THIS FILE (config.go):
  - Config: identity settings supplied by the environment
  - GraphScopes: the fixed delegated permission set the portal needs

SEE ALSO:
  - provider.go: The OAuth2 flow
  - session.go: Session store and silent token acquisition
  - principal.go: Who is signed in, read from token claims
*/
package auth

import (
	"fmt"
	"os"
)

// GraphScopes are the delegated Graph permissions the portal requests:
// profile read, calendar read/write, group membership read, tasks read.
var GraphScopes = []string{
	"User.Read",
	"Calendars.ReadWrite",
	"Group.Read.All",
	"Tasks.Read",
}

// reservedScopes are required by the code flow itself: identity claims
// and a refresh token for silent acquisition.
var reservedScopes = []string{"openid", "profile", "offline_access"}

// =============================================================================
// CONFIG
// =============================================================================

type Config struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	RedirectURL  string
	Scopes       []string
}

// FromEnv reads identity settings from the environment.
//
//	MSAL_CLIENT_ID      application (client) id        [required]
//	MSAL_CLIENT_SECRET  confidential client secret     [required]
//	MSAL_TENANT_ID      directory (tenant) id          [required]
//	MSAL_REDIRECT_URL   defaults to the local callback
func FromEnv() (Config, error) {
	cfg := Config{
		ClientID:     os.Getenv("MSAL_CLIENT_ID"),
		ClientSecret: os.Getenv("MSAL_CLIENT_SECRET"),
		TenantID:     os.Getenv("MSAL_TENANT_ID"),
		RedirectURL:  os.Getenv("MSAL_REDIRECT_URL"),
		Scopes:       GraphScopes,
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost:8080/auth/callback"
	}

	var missing []string
	if cfg.ClientID == "" {
		missing = append(missing, "MSAL_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "MSAL_CLIENT_SECRET")
	}
	if cfg.TenantID == "" {
		missing = append(missing, "MSAL_TENANT_ID")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing identity configuration: %v", missing)
	}
	return cfg, nil
}
