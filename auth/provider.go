/*
provider.go - OAuth2 authorization-code flow against Azure AD

PURPOSE:
  The server-side counterpart of MSAL's loginPopup/acquireTokenSilent:
  build the authority redirect, exchange the returned code for a token,
  and hand out TokenSources that refresh silently.

The authentication protocol itself belongs to golang.org/x/oauth2; this
file only wires the Azure AD endpoints and the portal's scope set.
*/
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/warp/leave-portal/leave"
)

// =============================================================================
// PROVIDER
// =============================================================================

type Provider struct {
	oauth  *oauth2.Config
	logger *zap.Logger
}

func NewProvider(cfg Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	scopes := append(append([]string{}, reservedScopes...), cfg.Scopes...)
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
		logger: logger,
	}
}

// LoginURL returns the authority redirect for interactive sign-in.
func (p *Provider) LoginURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and reports which
// scopes the authority actually granted.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, []string, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, nil, &leave.CredentialError{Reason: "authorization code exchange failed", Err: err}
	}
	return tok, grantedScopes(tok, p.oauth.Scopes), nil
}

// tokenSource returns a refreshing source bound to ctx.
func (p *Provider) tokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return p.oauth.TokenSource(ctx, tok)
}

// grantedScopes reads the space-separated scope list from the token
// response, falling back to the requested set when absent.
func grantedScopes(tok *oauth2.Token, requested []string) []string {
	raw, _ := tok.Extra("scope").(string)
	if raw == "" {
		return requested
	}
	return strings.Fields(raw)
}

// scopeSet indexes scopes for subset checks. Azure returns qualified
// resource scopes ("https://graph.microsoft.com/User.Read"); compare on
// the trailing segment.
func scopeSet(scopes []string) map[string]bool {
	set := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		if i := strings.LastIndex(s, "/"); i >= 0 {
			s = s[i+1:]
		}
		set[s] = true
	}
	return set
}

func missingScopes(granted map[string]bool, want []string) []string {
	var missing []string
	for _, s := range want {
		if !granted[s] {
			missing = append(missing, s)
		}
	}
	return missing
}
