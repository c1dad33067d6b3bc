package graph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-portal/graph"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestClient(t *testing.T, handler http.HandlerFunc) *graph.Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := graph.NewClient(nil)
	c.BaseURL = srv.URL
	return c
}

// =============================================================================
// DIRECTORY CALLS
// =============================================================================

func TestClient_Me_SelectAndBearer(t *testing.T) {
	// GIVEN: A Graph backend checking path, $select and the bearer header
	// WHEN: Fetching /me
	// THEN: The selected profile fields are decoded

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "displayName,jobTitle,mail,department", r.URL.Query().Get("$select"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(graph.Me{
			DisplayName: "Ada Lovelace",
			JobTitle:    "Engineer",
			Mail:        "ada@example.com",
			Department:  "R&D",
		})
	})

	me, err := client.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", me.DisplayName)
	assert.Equal(t, "R&D", me.Department)
}

func TestClient_User_NotFound(t *testing.T) {
	// A 404 on a single user matches ErrNotFound (and the umbrella is
	// NOT matched, so batch callers can tell them apart).

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "Request_ResourceNotFound", "message": "no such user"},
		})
	})

	_, err := client.User(context.Background(), "tok", "U5")
	assert.True(t, graph.IsNotFound(err))

	var re *graph.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "Request_ResourceNotFound", re.Code)
}

func TestClient_Users_ListEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "id,displayName,mail", r.URL.Query().Get("$select"))
		json.NewEncoder(w).Encode(map[string]any{
			"value": []graph.User{
				{ID: "u1", DisplayName: "One", Mail: "one@example.com"},
				{ID: "u2", DisplayName: "Two", Mail: "two@example.com"},
			},
		})
	})

	users, err := client.Users(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
}

func TestClient_ServerError_IsRemoteCallFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Me(context.Background(), "tok")
	assert.ErrorIs(t, err, graph.ErrRemoteCallFailed)
	assert.False(t, graph.IsNotFound(err))
}

// =============================================================================
// CALENDAR CALLS
// =============================================================================

func TestClient_CreateEvent_Payload(t *testing.T) {
	// The wire payload must match the leave-event contract exactly.

	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/events", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(graph.Event{ID: "evt-1", Subject: "personal Leave"})
	})

	created, err := client.CreateEvent(context.Background(), "tok", graph.Event{
		Subject: "personal Leave",
		Start:   graph.DateTimeZone{DateTime: "2024-03-01T00:00:00Z", TimeZone: "UTC"},
		End:     graph.DateTimeZone{DateTime: "2024-03-03T00:00:00Z", TimeZone: "UTC"},
		Body:    &graph.ItemBody{ContentType: "text", Content: "doctor"},
		ShowAs:  "oof",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)

	assert.Equal(t, "personal Leave", got["subject"])
	assert.Equal(t, "oof", got["showAs"])
	start := got["start"].(map[string]any)
	assert.Equal(t, "2024-03-01T00:00:00Z", start["dateTime"])
	assert.Equal(t, "UTC", start["timeZone"])
	body := got["body"].(map[string]any)
	assert.Equal(t, "text", body["contentType"])
	assert.Equal(t, "doctor", body["content"])
}

func TestClient_GrantSitePermission_Payload(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/permissions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	})

	err := client.GrantSitePermission(context.Background(), "tok", "site-1", "Member", "u9")
	require.NoError(t, err)

	roles := got["roles"].([]any)
	assert.Equal(t, []any{"Member"}, roles)
	identities := got["grantedToIdentities"].([]any)
	require.Len(t, identities, 1)
	user := identities[0].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "u9", user["id"])
}

func TestClient_MyPhoto_Binary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/photo/$value", r.URL.Path)
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	})

	photo, err := client.MyPhoto(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, photo)
}
