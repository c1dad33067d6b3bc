/*
Package graph is a thin resource-path client for Microsoft Graph.

PURPOSE:
  The portal treats Graph as the system of record for identity, the
  organizational directory, sites ("projects") and the calendar. This
  package exposes exactly the resource paths the portal uses, bound to a
  delegated bearer token supplied per call.

KEY CONCEPTS IN THIS FILE (types.go):
  - User, Me: directory records (selected fields only)
  - Event: calendar event payload for POST /me/events
  - Site: followed SharePoint site, surfaced as a project upstream

DESIGN:
  No SDK. Graph is plain resource-addressed REST; each method is a path,
  an optional $select, and a JSON body. The token travels with the call
  because the signed-in user's delegated credential changes per session.

SEE ALSO:
  - client.go: HTTP plumbing and error mapping
*/
package graph

// =============================================================================
// DIRECTORY RECORDS
// =============================================================================

// Me is the signed-in user's profile, selected fields only.
type Me struct {
	DisplayName string `json:"displayName"`
	JobTitle    string `json:"jobTitle"`
	Mail        string `json:"mail"`
	Department  string `json:"department"`
}

// User is a directory roster entry.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Mail        string `json:"mail"`
}

// Site is a followed SharePoint site.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// =============================================================================
// CALENDAR EVENT
// =============================================================================

// DateTimeZone is Graph's wall-clock + zone pair.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ItemBody is an event description body.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// EmailAddress identifies an event organizer.
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Recipient wraps an EmailAddress the way Graph nests it.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// Location is an event location.
type Location struct {
	DisplayName string `json:"displayName"`
}

// Event is a calendar event. Only the fields the portal reads or writes.
type Event struct {
	ID        string       `json:"id,omitempty"`
	Subject   string       `json:"subject"`
	Start     DateTimeZone `json:"start"`
	End       DateTimeZone `json:"end"`
	Body      *ItemBody    `json:"body,omitempty"`
	ShowAs    string       `json:"showAs,omitempty"`
	Location  *Location    `json:"location,omitempty"`
	Organizer *Recipient   `json:"organizer,omitempty"`
}

// =============================================================================
// SITE PERMISSIONS
// =============================================================================

// Identity is a directory object reference inside a permission grant.
type Identity struct {
	ID string `json:"id"`
}

// IdentitySet wraps the user identity the way Graph nests it.
type IdentitySet struct {
	User Identity `json:"user"`
}

// Permission is the body of POST /sites/{id}/permissions.
type Permission struct {
	Roles               []string      `json:"roles"`
	GrantedToIdentities []IdentitySet `json:"grantedToIdentities"`
}

// listResponse is Graph's standard collection envelope.
type listResponse[T any] struct {
	Value []T `json:"value"`
}
