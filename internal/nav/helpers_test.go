package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// newTestStore opens a fresh store in a temp directory.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// newTestUser creates a user and returns its ID.
func newTestUser(t *testing.T, store *sqlite.Store, username string) string {
	t.Helper()
	u := &types.User{Username: username, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(u))
	return u.ID
}

// newTestEngines wires both engines over one fresh store with a prober whose
// timeouts are too short to ever reach the network.
func newTestEngines(t *testing.T) (*sqlite.Store, *CategoryEngine, *BookmarkEngine) {
	t.Helper()
	store := newTestStore(t)
	probe := NewProber(time.Millisecond, time.Second)
	return store, NewCategoryEngine(store), NewBookmarkEngine(store, probe, 2)
}

func strptr(s string) *string { return &s }
