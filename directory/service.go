/*
Package directory exposes read-through projections of the external
directory: the signed-in user's profile, the organization roster, followed
sites as projects, and project assignments.

PURPOSE:
  None of this data is owned by the portal. Every view fetches on demand
  with the session's delegated credential and caches nothing beyond the
  response handed to the caller. The one exception is the assignment
  list, which is portal-local UI state like the leave-request store.

PARTIAL FAILURE:
  Batch enrichment is per-item: one missing user in a roster is logged
  and skipped, the batch continues. A missing profile photo is likewise
  non-fatal. Top-level fetch failures propagate.

SEE ALSO:
  - graph/client.go: The underlying calls
*/
package directory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/warp/leave-portal/graph"
)

// =============================================================================
// PROJECTIONS
// =============================================================================

// Profile is the signed-in user's card.
type Profile struct {
	DisplayName string
	JobTitle    string
	Mail        string
	Department  string
	Photo       []byte // nil when no photo is set
}

// Project is a followed site surfaced as a project.
type Project struct {
	ID          string
	Title       string
	Description string
	Status      string
}

// Assignment links a user to a project with a role.
type Assignment struct {
	UserID    string
	ProjectID string
	Role      string
}

// =============================================================================
// SERVICE
// =============================================================================

// GraphAPI is the slice of the graph client the service needs.
type GraphAPI interface {
	Me(ctx context.Context, token string) (*graph.Me, error)
	MyPhoto(ctx context.Context, token string) ([]byte, error)
	User(ctx context.Context, token, id string) (*graph.User, error)
	Users(ctx context.Context, token string) ([]graph.User, error)
	FollowedSites(ctx context.Context, token string) ([]graph.Site, error)
	GrantSitePermission(ctx context.Context, token, siteID, role, userID string) error
}

type Service struct {
	Graph  GraphAPI
	Logger *zap.Logger

	mu          sync.RWMutex
	assignments []Assignment
}

func NewService(g GraphAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Graph: g, Logger: logger}
}

// Profile fetches the signed-in user's profile. The photo is best-effort:
// absence (or any photo fetch failure) is logged and the profile returned
// without one.
func (s *Service) Profile(ctx context.Context, token string) (*Profile, error) {
	me, err := s.Graph.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		DisplayName: me.DisplayName,
		JobTitle:    me.JobTitle,
		Mail:        me.Mail,
		Department:  me.Department,
	}

	photo, err := s.Graph.MyPhoto(ctx, token)
	if err != nil {
		s.Logger.Debug("no profile photo available", zap.Error(err))
	} else {
		profile.Photo = photo
	}
	return profile, nil
}

// EnrichUsers resolves directory records for a set of user ids. Failed
// lookups are skipped; the result keeps first-seen order of the ids.
func (s *Service) EnrichUsers(ctx context.Context, token string, userIDs []string) ([]graph.User, error) {
	seen := make(map[string]bool, len(userIDs))
	users := make([]graph.User, 0, len(userIDs))

	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		u, err := s.Graph.User(ctx, token, id)
		if err != nil {
			s.Logger.Warn("skipping user lookup",
				zap.String("user_id", id),
				zap.Bool("not_found", graph.IsNotFound(err)),
				zap.Error(err))
			continue
		}
		users = append(users, *u)
	}
	return users, nil
}

// AllUsers fetches the full organization roster.
func (s *Service) AllUsers(ctx context.Context, token string) ([]graph.User, error) {
	return s.Graph.Users(ctx, token)
}

// Projects maps the signed-in user's followed sites into projects.
func (s *Service) Projects(ctx context.Context, token string) ([]Project, error) {
	sites, err := s.Graph.FollowedSites(ctx, token)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, len(sites))
	for i, site := range sites {
		title := site.Name
		if title == "" {
			title = site.DisplayName
		}
		projects[i] = Project{
			ID:          site.ID,
			Title:       title,
			Description: site.Description,
			Status:      "active",
		}
	}
	return projects, nil
}

// Assign records a project assignment and grants the site permission.
// The local record always stands; a failed grant is returned for display
// but does not remove the assignment.
func (s *Service) Assign(ctx context.Context, token, projectID, userID, role string) (Assignment, error) {
	a := Assignment{UserID: userID, ProjectID: projectID, Role: role}

	s.mu.Lock()
	next := make([]Assignment, len(s.assignments)+1)
	copy(next, s.assignments)
	next[len(s.assignments)] = a
	s.assignments = next
	s.mu.Unlock()

	if err := s.Graph.GrantSitePermission(ctx, token, projectID, role, userID); err != nil {
		s.Logger.Warn("site permission grant failed, keeping local assignment",
			zap.String("project_id", projectID),
			zap.String("user_id", userID),
			zap.Error(err))
		return a, err
	}
	return a, nil
}

// Assignments returns the recorded assignments for a project.
func (s *Service) Assignments(projectID string) []Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Assignment
	for _, a := range s.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}
