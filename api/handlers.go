/*
handlers.go - HTTP handlers for the leave portal

PURPOSE:
  Exposes the portal over REST. Handlers parse and validate input,
  resolve the caller's session, delegate to the workflow/directory
  layers, and serialize responses.

ENDPOINTS:
  Auth:
    GET  /auth/login        Redirect to the identity authority
    GET  /auth/callback     Code exchange, session cookie
    POST /auth/logout       Drop the session
    GET  /auth/me           Signed-in principal

  Leave:
    GET  /api/requests              All requests (insertion order)
    POST /api/requests              Submit a request
    GET  /api/requests/pending      Pending + enriched requesters
    POST /api/requests/{id}/approve
    POST /api/requests/{id}/reject
    GET  /api/stats                 Used days vs quotas

  Directory:
    GET  /api/profile
    GET  /api/users
    GET  /api/projects
    GET  /api/projects/{id}/assignments
    POST /api/projects/{id}/assignments
    GET  /api/calendar

ERROR HANDLING:
  Domain errors map to HTTP status via writeDomainError:
  - 400: invalid range/type, malformed bodies
  - 401: no session, credential unavailable
  - 404: unknown request, missing directory record
  - 409: already-decided request
  - 502: directory/calendar call failures
  Responses use the ErrorResponse envelope.

SECURITY NOTE:
  Any signed-in user may approve or reject. The manager role check is a
  known product gap, deliberately not invented here.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/leave-portal/auth"
	"github.com/warp/leave-portal/directory"
	"github.com/warp/leave-portal/graph"
	"github.com/warp/leave-portal/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions  *auth.Sessions
	Provider  *auth.Provider
	Store     *leave.Store
	Workflow  *leave.Workflow
	Directory *directory.Service
	Graph     *graph.Client
	Quota     leave.Quota
	Logger    *zap.Logger

	validate *validator.Validate

	// Pending OAuth states, consumed on callback.
	mu     sync.Mutex
	states map[string]bool
}

// NewHandler wires the handler with its collaborators.
func NewHandler(sessions *auth.Sessions, provider *auth.Provider, store *leave.Store,
	workflow *leave.Workflow, dir *directory.Service, gc *graph.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Sessions:  sessions,
		Provider:  provider,
		Store:     store,
		Workflow:  workflow,
		Directory: dir,
		Graph:     gc,
		Quota:     leave.DefaultQuota,
		Logger:    logger,
		validate:  validator.New(),
		states:    make(map[string]bool),
	}
}

type ctxKey int

const sessionKey ctxKey = 1

// WithSession resolves the session cookie and rejects anonymous callers.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Sign in required", "unauthenticated", nil)
			return
		}
		sess, ok := h.Sessions.Get(cookie.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Session expired, sign in again", "unauthenticated", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func (h *Handler) session(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionKey).(*auth.Session)
	return sess
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login redirects the browser to the identity authority.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.mu.Lock()
	h.states[state] = true
	h.mu.Unlock()

	http.Redirect(w, r, h.Provider.LoginURL(state), http.StatusFound)
}

// Callback exchanges the authorization code and opens a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	h.mu.Lock()
	known := h.states[state]
	delete(h.states, state)
	h.mu.Unlock()
	if !known {
		writeError(w, http.StatusBadRequest, "Unknown login state", "invalid_state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code", "invalid_code", nil)
		return
	}

	tok, granted, err := h.Provider.Exchange(r.Context(), code)
	if err != nil {
		h.writeDomainError(w, "Sign-in failed", err)
		return
	}

	principal, err := auth.PrincipalFromToken(tok.AccessToken)
	if err != nil {
		h.writeDomainError(w, "Sign-in failed", err)
		return
	}

	sess := h.Sessions.Create(principal, tok, granted)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout drops the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   auth.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := h.session(r).Principal
	writeJSON(w, http.StatusOK, PrincipalDTO{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Username:    p.Username,
	})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListRequests returns the full request collection in insertion order.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(h.Store.List()))
}

// SubmitRequest creates a leave request and mirrors it into the calendar.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", "validation_failed", err.Error())
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", "invalid_date", nil)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", "invalid_date", nil)
		return
	}

	sub, err := h.Workflow.Submit(r.Context(), h.session(r), leave.SubmitInput{
		Start: start,
		End:   end,
		Type:  leave.Type(req.Type),
		Notes: req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to submit leave request", err)
		return
	}

	resp := SubmitResponse{Request: toLeaveRequestDTO(sub.Request)}
	if sub.CalendarErr != nil {
		resp.CalendarError = sub.CalendarErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// PendingRequests returns pending requests enriched with requester records.
// A failed lookup leaves the row without a requester; the batch continues.
func (h *Handler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	pending := h.Store.Pending()

	token, err := h.session(r).Acquire(r.Context(), auth.GraphScopes)
	if err != nil {
		h.writeDomainError(w, "Failed to load requester details", err)
		return
	}

	ids := make([]string, len(pending))
	for i, req := range pending {
		ids[i] = req.UserID
	}
	users, err := h.Directory.EnrichUsers(r.Context(), token, ids)
	if err != nil {
		h.writeDomainError(w, "Failed to load requester details", err)
		return
	}
	byID := make(map[string]graph.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := make([]PendingRequestDTO, len(pending))
	for i, req := range pending {
		rows[i] = PendingRequestDTO{LeaveRequestDTO: toLeaveRequestDTO(req)}
		if u, ok := byID[req.UserID]; ok {
			dto := toUserDTO(u)
			rows[i].Requester = &dto
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// RejectRequest rejects a pending request.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	id := chi.URLParam(r, "id")

	dec, err := h.Workflow.Decide(r.Context(), h.session(r), id, approve)
	if err != nil {
		h.writeDomainError(w, "Failed to decide leave request", err)
		return
	}

	resp := DecisionResponse{Request: toLeaveRequestDTO(dec.Request)}
	if dec.CalendarErr != nil {
		resp.CalendarError = dec.CalendarErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats returns used days per leave type against the annual quotas.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	report := leave.Usage(h.Store.List(), h.Quota)
	writeJSON(w, http.StatusOK, toUsageDTOs(report))
}

// =============================================================================
// DIRECTORY HANDLERS
// =============================================================================

func (h *Handler) acquire(r *http.Request) (string, error) {
	return h.session(r).Acquire(r.Context(), auth.GraphScopes)
}

// Profile returns the signed-in user's directory card.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	token, err := h.acquire(r)
	if err != nil {
		h.writeDomainError(w, "Failed to load profile", err)
		return
	}

	profile, err := h.Directory.Profile(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, "Failed to load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileDTO{
		DisplayName: profile.DisplayName,
		JobTitle:    profile.JobTitle,
		Mail:        profile.Mail,
		Department:  profile.Department,
		HasPhoto:    len(profile.Photo) > 0,
	})
}

// Users returns the organization roster.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	token, err := h.acquire(r)
	if err != nil {
		h.writeDomainError(w, "Failed to load users", err)
		return
	}

	users, err := h.Directory.AllUsers(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, "Failed to load users", err)
		return
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Projects returns the signed-in user's followed sites as projects.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	token, err := h.acquire(r)
	if err != nil {
		h.writeDomainError(w, "Failed to load projects", err)
		return
	}

	projects, err := h.Directory.Projects(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, "Failed to load projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAssignments returns recorded assignments for a project.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	assignments := h.Directory.Assignments(projectID)

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = AssignmentDTO{UserID: a.UserID, ProjectID: a.ProjectID, Role: a.Role}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment records an assignment and grants the site permission.
// A failed grant keeps the local record and reports the error inline.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment", "validation_failed", err.Error())
		return
	}

	token, err := h.acquire(r)
	if err != nil {
		h.writeDomainError(w, "Failed to assign user", err)
		return
	}

	a, grantErr := h.Directory.Assign(r.Context(), token, projectID, req.UserID, req.Role)
	dto := AssignmentDTO{UserID: a.UserID, ProjectID: a.ProjectID, Role: a.Role}
	if grantErr != nil {
		dto.Error = grantErr.Error()
	}
	writeJSON(w, http.StatusCreated, dto)
}

// CalendarEvents returns the signed-in user's calendar.
func (h *Handler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	token, err := h.acquire(r)
	if err != nil {
		h.writeDomainError(w, "Failed to load calendar", err)
		return
	}

	events, err := h.Graph.MyEvents(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, "Failed to load calendar", err)
		return
	}
	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string, details any) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code, Details: details})
}

// writeDomainError maps workflow/directory errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, leave.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, msg, "unauthenticated", err.Error())
	case errors.Is(err, leave.ErrCredentialUnavailable):
		writeError(w, http.StatusUnauthorized, msg, "credential_unavailable", err.Error())
	case errors.Is(err, leave.ErrInvalidRange), errors.Is(err, leave.ErrInvalidType):
		writeError(w, http.StatusBadRequest, msg, "invalid_request", err.Error())
	case errors.Is(err, leave.ErrUnknownRequest), errors.Is(err, graph.ErrNotFound):
		writeError(w, http.StatusNotFound, msg, "not_found", err.Error())
	case errors.Is(err, leave.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, msg, "already_decided", err.Error())
	case errors.Is(err, graph.ErrRemoteCallFailed):
		writeError(w, http.StatusBadGateway, msg, "remote_call_failed", err.Error())
	default:
		h.Logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg, "internal", nil)
	}
}
