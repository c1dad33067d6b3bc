/*
workflow.go - Leave request lifecycle orchestration

PURPOSE:
  The only component that writes calendar events and the only path a
  manager decision flows through.

REQUEST FLOW:

  Submit:   session check -> date check -> acquire token
            -> Store.Add (the record of intent, always kept)
            -> POST /me/events (best-effort mirror)

  Decide:   session check -> lookup -> terminal check
            -> Store.UpdateDecision
            -> on approval: POST /me/events with the decider's credential

SIDE-EFFECT ORDERING:
  Local commit first, remote mirror second. A failed calendar write is
  reported on a distinct channel (Submission.CalendarErr / Decision.
  CalendarErr) and never rolls back the store record: the store is the
  source of truth, the calendar entry a best-effort notification.

SEE ALSO:
  - store.go: The collection mutated here
  - graph/client.go: The calendar side effect
*/
package leave

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/warp/leave-portal/graph"
)

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Session is the authenticated caller: an identity plus the ability to
// mint a delegated bearer credential for a scope set.
type Session interface {
	// UserID returns the signed-in principal's directory object id.
	UserID() string

	// Acquire returns a bearer token covering the given scopes, or an
	// error unwrapping to ErrCredentialUnavailable.
	Acquire(ctx context.Context, scopes []string) (string, error)
}

// Calendar is the slice of the graph client the workflow needs.
type Calendar interface {
	CreateEvent(ctx context.Context, token string, ev graph.Event) (*graph.Event, error)
}

// CalendarScopes are the delegated permissions the calendar side effect needs.
var CalendarScopes = []string{"Calendars.ReadWrite"}

// =============================================================================
// WORKFLOW
// =============================================================================

type Workflow struct {
	Store    *Store
	Calendar Calendar
	Logger   *zap.Logger
}

func NewWorkflow(store *Store, calendar Calendar, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{Store: store, Calendar: calendar, Logger: logger}
}

// SubmitInput are the caller-supplied fields of a new request.
type SubmitInput struct {
	Start time.Time
	End   time.Time
	Type  Type
	Notes string
}

// Submission is the outcome of Submit. CalendarErr is non-nil when the
// store record was created but the calendar mirror failed.
type Submission struct {
	Request     Request
	CalendarErr error
}

// Submit validates the input, records the request, and mirrors it into
// the requester's calendar.
func (w *Workflow) Submit(ctx context.Context, sess Session, in SubmitInput) (*Submission, error) {
	if sess == nil || sess.UserID() == "" {
		return nil, ErrUnauthenticated
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, ErrInvalidRange
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}

	// Credential before any mutation: a broker failure must surface
	// without leaving a half-submitted request behind.
	token, err := sess.Acquire(ctx, CalendarScopes)
	if err != nil {
		return nil, &CredentialError{Reason: "token acquisition failed", Err: err}
	}

	req := w.Store.Add(sess.UserID(), in.Start, in.End, in.Type, in.Notes)

	sub := &Submission{Request: req}
	if _, err := w.Calendar.CreateEvent(ctx, token, leaveEvent(req)); err != nil {
		w.Logger.Warn("calendar mirror failed, keeping store record",
			zap.String("request_id", req.ID),
			zap.Error(err))
		sub.CalendarErr = err
	}
	return sub, nil
}

// Decision is the outcome of Decide. CalendarErr is non-nil when the
// status was updated but the approval's calendar write failed.
type Decision struct {
	Request     Request
	CalendarErr error
}

// Decide approves or rejects a pending request. Approval mirrors the
// leave period into the calendar of the deciding session's user.
//
// No role check restricts who may decide; the directory is the place a
// real deployment would enforce one.
func (w *Workflow) Decide(ctx context.Context, sess Session, requestID string, approve bool) (*Decision, error) {
	if sess == nil || sess.UserID() == "" {
		return nil, ErrUnauthenticated
	}

	req, ok := w.Store.Get(requestID)
	if !ok {
		return nil, &DecisionError{RequestID: requestID, Err: ErrUnknownRequest}
	}
	if req.Status.Terminal() {
		return nil, &DecisionError{RequestID: requestID, Status: req.Status, Err: ErrAlreadyDecided}
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	w.Store.UpdateDecision(requestID, status, sess.UserID())
	req, _ = w.Store.Get(requestID)

	dec := &Decision{Request: req}
	if !approve {
		return dec, nil
	}

	token, err := sess.Acquire(ctx, CalendarScopes)
	if err != nil {
		// The decision stands; only the mirror is missing.
		dec.CalendarErr = &CredentialError{Reason: "token acquisition failed", Err: err}
		return dec, nil
	}
	if _, err := w.Calendar.CreateEvent(ctx, token, leaveEvent(req)); err != nil {
		w.Logger.Warn("approval calendar write failed, keeping decision",
			zap.String("request_id", req.ID),
			zap.Error(err))
		dec.CalendarErr = err
	}
	return dec, nil
}

// leaveEvent builds the calendar payload for a request:
// "<type> Leave", UTC bounds, notes as a text body, shown as out-of-office.
func leaveEvent(req Request) graph.Event {
	return graph.Event{
		Subject: fmt.Sprintf("%s Leave", req.Type),
		Start: graph.DateTimeZone{
			DateTime: req.StartDate.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: graph.DateTimeZone{
			DateTime: req.EndDate.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Body: &graph.ItemBody{
			ContentType: "text",
			Content:     req.Notes,
		},
		ShowAs: "oof",
	}
}
