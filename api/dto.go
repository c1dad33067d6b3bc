/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the wire contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Submit/assignment bodies carry validator tags; handlers run the shared
  validator before touching domain logic. Date-bound presence is still
  the workflow's own invariant (ErrInvalidRange) so it holds for every
  caller, not just HTTP.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/leave-portal/directory"
	"github.com/warp/leave-portal/graph"
	"github.com/warp/leave-portal/leave"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SubmitLeaveRequest is the body of POST /api/requests.
type SubmitLeaveRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=vacation sick personal"`
	Notes     string `json:"notes"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	DecidedBy string `json:"decided_by,omitempty"`
}

// SubmitResponse reports the created record plus the best-effort calendar
// mirror outcome on its own channel.
type SubmitResponse struct {
	Request       LeaveRequestDTO `json:"request"`
	CalendarError string          `json:"calendar_error,omitempty"`
}

// DecisionResponse mirrors SubmitResponse for approve/reject.
type DecisionResponse struct {
	Request       LeaveRequestDTO `json:"request"`
	CalendarError string          `json:"calendar_error,omitempty"`
}

// PendingRequestDTO is a dashboard row: the request plus the requester's
// directory record when enrichment found one.
type PendingRequestDTO struct {
	LeaveRequestDTO
	Requester *UserDTO `json:"requester,omitempty"`
}

// UsageDTO is one statistics line.
type UsageDTO struct {
	Type     string  `json:"type"`
	UsedDays int     `json:"used_days"`
	Quota    int     `json:"quota"`
	Ratio    float64 `json:"ratio"`
}

// ProfileDTO is the signed-in user's card.
type ProfileDTO struct {
	DisplayName string `json:"display_name"`
	JobTitle    string `json:"job_title"`
	Mail        string `json:"mail"`
	Department  string `json:"department"`
	HasPhoto    bool   `json:"has_photo"`
}

// UserDTO is a directory roster entry.
type UserDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Mail        string `json:"mail"`
}

// ProjectDTO is a followed site surfaced as a project.
type ProjectDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// AssignRequest is the body of POST /api/projects/{id}/assignments.
type AssignRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// AssignmentDTO is a recorded project assignment.
type AssignmentDTO struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	Role      string `json:"role"`
	Error     string `json:"error,omitempty"` // permission grant failure, assignment kept
}

// EventDTO is a calendar event row.
type EventDTO struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Start   string `json:"start"`
	End     string `json:"end"`
	ShowAs  string `json:"show_as,omitempty"`
}

// PrincipalDTO is the signed-in identity.
type PrincipalDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

const dateLayout = "2006-01-02"

func toLeaveRequestDTO(r leave.Request) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Type:      string(r.Type),
		Status:    string(r.Status),
		Notes:     r.Notes,
		DecidedBy: r.DecidedBy,
	}
}

func toLeaveRequestDTOs(rs []leave.Request) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}

func toUserDTO(u graph.User) UserDTO {
	return UserDTO{ID: u.ID, DisplayName: u.DisplayName, Mail: u.Mail}
}

func toProjectDTO(p directory.Project) ProjectDTO {
	return ProjectDTO{ID: p.ID, Title: p.Title, Description: p.Description, Status: p.Status}
}

func toUsageDTOs(report leave.UsageReport) []UsageDTO {
	dtos := make([]UsageDTO, len(report.Lines))
	for i, l := range report.Lines {
		ratio, _ := l.Ratio.Float64()
		dtos[i] = UsageDTO{
			Type:     string(l.Type),
			UsedDays: l.UsedDays,
			Quota:    l.Quota,
			Ratio:    ratio,
		}
	}
	return dtos
}

func toEventDTO(ev graph.Event) EventDTO {
	return EventDTO{
		ID:      ev.ID,
		Subject: ev.Subject,
		Start:   ev.Start.DateTime,
		End:     ev.End.DateTime,
		ShowAs:  ev.ShowAs,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
