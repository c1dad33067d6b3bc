/*
errors.go - Centralized error types for the leave workflow

PURPOSE:
  All workflow-facing error types in one place. Callers branch with
  errors.Is; the HTTP layer maps them to status codes.

ERROR CATEGORIES:
  1. Session errors - No signed-in principal, token broker failure
  2. Input errors   - Missing date bounds, unknown leave type
  3. Decision errors - Unknown or already-decided requests
  4. Remote errors  - Directory/calendar call failures (see graph package)

SEE ALSO:
  - workflow.go: Produces these errors
  - graph/client.go: RemoteError / ErrRemoteCallFailed / ErrNotFound
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnauthenticated is returned when no signed-in principal is
	// attached to the operation. No store or calendar activity happens.
	ErrUnauthenticated = errors.New("no authenticated principal")

	// ErrCredentialUnavailable is returned when the token provider cannot
	// produce a bearer credential. Always surfaced, never swallowed.
	ErrCredentialUnavailable = errors.New("credential unavailable")

	// ErrInvalidRange is returned when a request is missing either date bound.
	ErrInvalidRange = errors.New("start and end dates are required")

	// ErrInvalidType is returned for an unknown leave type.
	ErrInvalidType = errors.New("unknown leave type")

	// ErrUnknownRequest is returned by Decide for an id not in the store.
	ErrUnknownRequest = errors.New("unknown leave request")

	// ErrAlreadyDecided is returned by Decide when the request has already
	// reached a terminal status. Decisions are not repeatable: the approval
	// side effect writes a calendar event.
	ErrAlreadyDecided = errors.New("request already decided")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CredentialError carries the token broker's failure message.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("credential unavailable: %s", e.Reason)
}

func (e *CredentialError) Unwrap() error { return ErrCredentialUnavailable }

// DecisionError identifies which request a failed decision referred to.
type DecisionError struct {
	RequestID string
	Status    Status // status at the time of the call, empty if unknown
	Err       error
}

func (e *DecisionError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("request %s: %v (status %s)", e.RequestID, e.Err, e.Status)
	}
	return fmt.Sprintf("request %s: %v", e.RequestID, e.Err)
}

func (e *DecisionError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrAlreadyDecided)
}

// IsAuthError returns true if the error concerns the signed-in session.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrCredentialUnavailable)
}
