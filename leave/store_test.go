package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-portal/leave"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// ADD
// =============================================================================

func TestStore_Add_PendingWithFreshID(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Adding two requests
	// THEN: Both are pending, ids are unique, insertion order is preserved

	store := leave.NewStore()

	first := store.Add("u1", day(2024, 3, 1), day(2024, 3, 3), leave.TypePersonal, "doctor")
	second := store.Add("u2", day(2024, 4, 1), day(2024, 4, 5), leave.TypeVacation, "")

	assert.Equal(t, leave.StatusPending, first.Status)
	assert.Equal(t, leave.StatusPending, second.Status)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, "u1", list[0].UserID)
	assert.Equal(t, "doctor", list[0].Notes)
}

func TestStore_Add_DoesNotDisturbPriorRecords(t *testing.T) {
	// GIVEN: A store with one request and a snapshot of it
	// WHEN: Adding another request
	// THEN: The snapshot and the prior record are unchanged

	store := leave.NewStore()
	first := store.Add("u1", day(2024, 1, 1), day(2024, 1, 2), leave.TypeSick, "")
	snapshot := store.List()

	store.Add("u2", day(2024, 2, 1), day(2024, 2, 2), leave.TypeVacation, "")

	require.Len(t, snapshot, 1)
	assert.Equal(t, first.ID, snapshot[0].ID)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0])
}

// =============================================================================
// UPDATE STATUS
// =============================================================================

func TestStore_UpdateStatus_UnknownID_SilentNoOp(t *testing.T) {
	// GIVEN: A store with one pending request
	// WHEN: Updating a nonexistent id
	// THEN: The collection is unchanged, nothing added, removed or mutated

	store := leave.NewStore()
	store.Add("u1", day(2024, 1, 1), day(2024, 1, 2), leave.TypeVacation, "")
	before := store.List()

	store.UpdateStatus("no-such-id", leave.StatusApproved)

	after := store.List()
	assert.Equal(t, before, after)
}

func TestStore_UpdateStatus_ReplacesStatusOnly(t *testing.T) {
	store := leave.NewStore()
	req := store.Add("u1", day(2024, 1, 1), day(2024, 1, 2), leave.TypeVacation, "ski trip")

	store.UpdateStatus(req.ID, leave.StatusApproved)

	got, ok := store.Get(req.ID)
	require.True(t, ok)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, req.UserID, got.UserID)
	assert.Equal(t, req.Notes, got.Notes)
	assert.Equal(t, req.StartDate, got.StartDate)
}

func TestStore_UpdateStatus_SnapshotsStayValid(t *testing.T) {
	// Mutation is by copy: a snapshot taken before the update still shows
	// the old status.

	store := leave.NewStore()
	req := store.Add("u1", day(2024, 1, 1), day(2024, 1, 2), leave.TypeVacation, "")
	snapshot := store.List()

	store.UpdateStatus(req.ID, leave.StatusRejected)

	assert.Equal(t, leave.StatusPending, snapshot[0].Status)
	got, _ := store.Get(req.ID)
	assert.Equal(t, leave.StatusRejected, got.Status)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestStore_Pending_FiltersTerminalRequests(t *testing.T) {
	store := leave.NewStore()
	a := store.Add("u1", day(2024, 1, 1), day(2024, 1, 2), leave.TypeVacation, "")
	b := store.Add("u2", day(2024, 2, 1), day(2024, 2, 2), leave.TypeSick, "")
	c := store.Add("u3", day(2024, 3, 1), day(2024, 3, 2), leave.TypePersonal, "")

	store.UpdateStatus(a.ID, leave.StatusApproved)
	store.UpdateStatus(c.ID, leave.StatusRejected)

	pending := store.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestStore_Get_Unknown(t *testing.T) {
	store := leave.NewStore()
	_, ok := store.Get("missing")
	assert.False(t, ok)
}
