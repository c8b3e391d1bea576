package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/moderator/internal/model"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	// A file per test keeps shared-cache in-memory databases from leaking
	// between tests.
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenMemory(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	var name string
	err = j.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='actions'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "actions", name)
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	j := openTest(t)
	e, err := j.Record(context.Background(), Entry{Resource: "products", Kind: "status", IDs: []string{"p1"}, Status: "approved", OK: true})
	require.NoError(t, err)
	assert.Len(t, e.ID, 36)
	assert.False(t, e.At.IsZero())
}

func TestRecentOrderAndFilters(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{At: base, Resource: "products", Kind: "status", IDs: []string{"p1", "p2"}, Status: "approved", OK: true},
		{At: base.Add(time.Minute), Resource: "posts", Kind: "delete", IDs: []string{"po1"}, OK: false, Message: "boom"},
		{At: base.Add(2 * time.Minute), Resource: "products", Kind: "status", IDs: []string{"p3"}, Status: "rejected", OK: false, Message: "nope"},
	}
	for _, e := range entries {
		_, err := j.Record(ctx, e)
		require.NoError(t, err)
	}

	all, err := j.Recent(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"p3"}, all[0].IDs, "newest first")
	assert.Equal(t, []string{"p1", "p2"}, all[2].IDs)
	assert.True(t, all[2].At.Equal(base))

	products, err := j.Recent(ctx, Filter{Resource: "products"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	failed, err := j.Recent(ctx, Filter{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, "nope", failed[0].Message)

	limited, err := j.Recent(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	since, err := j.Recent(ctx, Filter{Since: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Len(t, since, 2)
}

func TestPrefsUpsert(t *testing.T) {
	j := openTest(t)
	ctx := context.Background()

	_, ok, err := j.LoadPrefs(ctx, "products")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.SavePrefs(ctx, Prefs{Resource: "products", PageSize: 10, SortField: "name", SortOrder: model.Asc}))
	require.NoError(t, j.SavePrefs(ctx, Prefs{Resource: "products", PageSize: 25, SortField: "createdAt", SortOrder: model.Desc}))

	p, ok, err := j.LoadPrefs(ctx, "products")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Prefs{Resource: "products", PageSize: 25, SortField: "createdAt", SortOrder: model.Desc}, p)
}
