/*
client.go - HTTP plumbing for the Graph client

PURPOSE:
  Resource-addressed calls against the Graph REST endpoint, bound to a
  bearer token per call. Encodes the portal's error taxonomy: any non-2xx
  response becomes a *RemoteError unwrapping to ErrRemoteCallFailed, and
  404 additionally matches ErrNotFound so batch callers can skip missing
  records without aborting.

TIMEOUTS:
  Delegated to the injected *http.Client and the caller's context. The
  client imposes none of its own.

SEE ALSO:
  - types.go: Payload shapes
  - directory/service.go: Read-through projections built on this client
  - leave/workflow.go: Calendar event side effects
*/
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrRemoteCallFailed is the umbrella for any directory/calendar HTTP failure.
	ErrRemoteCallFailed = errors.New("graph call failed")

	// ErrNotFound marks a 404 on a single resource. Batch enrichment treats
	// it as per-item and non-fatal.
	ErrNotFound = errors.New("graph resource not found")
)

// RemoteError is a non-2xx Graph response.
type RemoteError struct {
	Status  int
	Code    string
	Message string
	Path    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("graph %s: %d %s: %s", e.Path, e.Status, e.Code, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrRemoteCallFailed
}

// IsNotFound reports whether err is a per-item 404.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// graphErrorBody is Graph's standard error envelope.
type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    http.DefaultClient,
		Logger:  logger,
	}
}

// do issues a request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp, path)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", path, ErrRemoteCallFailed, err)
	}
	return nil
}

func (c *Client) remoteError(resp *http.Response, path string) error {
	re := &RemoteError{Status: resp.StatusCode, Path: path}
	var body graphErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		re.Code = body.Error.Code
		re.Message = body.Error.Message
	}
	c.Logger.Warn("graph call failed",
		zap.String("path", path),
		zap.Int("status", re.Status),
		zap.String("code", re.Code))
	return re
}

func selectQuery(fields string) url.Values {
	return url.Values{"$select": []string{fields}}
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context, token string) (*Me, error) {
	var me Me
	if err := c.do(ctx, token, http.MethodGet, "/me", selectQuery("displayName,jobTitle,mail,department"), nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// MyPhoto fetches the signed-in user's photo bytes. Absence is a 404,
// which callers treat as non-fatal.
func (c *Client) MyPhoto(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/me/photo/$value", nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /me/photo/$value: %w: %w", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(resp, "/me/photo/$value")
	}
	return io.ReadAll(resp.Body)
}

// User fetches a single directory user.
func (c *Client) User(ctx context.Context, token, id string) (*User, error) {
	var u User
	if err := c.do(ctx, token, http.MethodGet, "/users/"+url.PathEscape(id), selectQuery("id,displayName,mail"), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Users fetches the full organization roster.
func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var list listResponse[User]
	if err := c.do(ctx, token, http.MethodGet, "/users", selectQuery("id,displayName,mail"), nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// FollowedSites fetches the sites the signed-in user follows.
func (c *Client) FollowedSites(ctx context.Context, token string) ([]Site, error) {
	var list listResponse[Site]
	if err := c.do(ctx, token, http.MethodGet, "/me/followedSites", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// GrantSitePermission adds a user to a site with the given role.
func (c *Client) GrantSitePermission(ctx context.Context, token, siteID, role, userID string) error {
	perm := Permission{
		Roles:               []string{role},
		GrantedToIdentities: []IdentitySet{{User: Identity{ID: userID}}},
	}
	return c.do(ctx, token, http.MethodPost, "/sites/"+url.PathEscape(siteID)+"/permissions", nil, perm, nil)
}

// =============================================================================
// CALENDAR
// =============================================================================

// CreateEvent writes an event into the signed-in user's calendar.
func (c *Client) CreateEvent(ctx context.Context, token string, ev Event) (*Event, error) {
	var created Event
	if err := c.do(ctx, token, http.MethodPost, "/me/events", nil, ev, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// MyEvents lists the signed-in user's calendar events.
func (c *Client) MyEvents(ctx context.Context, token string) ([]Event, error) {
	var list listResponse[Event]
	if err := c.do(ctx, token, http.MethodGet, "/me/events", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}
