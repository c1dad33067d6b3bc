/*
session.go - In-memory session store and silent token acquisition

PURPOSE:
  Holds one Session per signed-in browser: the principal plus the OAuth2
  token, refreshed silently on demand. Sessions live in process memory
  only, matching the portal's no-persistence design; a restart signs
  everyone out.

ACQUIRE CONTRACT:
  Acquire(scopes) -> accessToken | error unwrapping to
  leave.ErrCredentialUnavailable. Requested scopes must be a subset of
  what the authority granted at sign-in.
*/
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/warp/leave-portal/leave"
)

// CookieName is the session cookie the API layer reads.
const CookieName = "portal_session"

// =============================================================================
// SESSION
// =============================================================================

type Session struct {
	ID        string
	Principal Principal
	CreatedAt time.Time

	provider *Provider
	granted  map[string]bool

	mu    sync.Mutex
	token *oauth2.Token
}

// UserID implements leave.Session.
func (s *Session) UserID() string { return s.Principal.ID }

// Acquire implements leave.Session: returns a live bearer token for the
// requested scopes, refreshing silently when the cached one has expired.
func (s *Session) Acquire(ctx context.Context, scopes []string) (string, error) {
	if missing := missingScopes(s.granted, scopes); len(missing) > 0 {
		return "", &leave.CredentialError{
			Reason: "scopes not granted at sign-in: " + strings.Join(missing, " "),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.provider.tokenSource(ctx, s.token).Token()
	if err != nil {
		return "", &leave.CredentialError{Reason: "silent token refresh failed", Err: err}
	}
	s.token = tok
	return tok.AccessToken, nil
}

var _ leave.Session = (*Session)(nil)

// =============================================================================
// SESSION STORE
// =============================================================================

type Sessions struct {
	mu       sync.RWMutex
	provider *Provider
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessions(provider *Provider) *Sessions {
	return &Sessions{
		provider: provider,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a session for an exchanged token.
func (ss *Sessions) Create(principal Principal, tok *oauth2.Token, granted []string) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Principal: principal,
		CreatedAt: ss.now(),
		provider:  ss.provider,
		granted:   scopeSet(granted),
		token:     tok,
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with the given id.
func (ss *Sessions) Get(id string) (*Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	sess, ok := ss.sessions[id]
	return sess, ok
}

// Delete drops a session. Unknown ids are a no-op.
func (ss *Sessions) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}
