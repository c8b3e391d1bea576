package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllResourcesValidate(t *testing.T) {
	for _, r := range All() {
		t.Run(r.Name, func(t *testing.T) {
			require.NoError(t, r.Validate())
		})
	}
}

func TestValidateCatchesMistakes(t *testing.T) {
	tests := []struct {
		name string
		mod  func(r *Resource)
	}{
		{"no path", func(r *Resource) { r.Path = "" }},
		{"relative path", func(r *Resource) { r.Path = "posts" }},
		{"bad page base", func(r *Resource) { r.PageBase = 2 }},
		{"zero page size", func(r *Resource) { r.DefaultPageSize = 0 }},
		{"unknown target", func(r *Resource) {
			r.Transitions = append(r.Transitions, Transition{Name: "nuke", Key: "n", Status: "gone"})
		}},
		{"duplicate key", func(r *Resource) {
			r.Transitions = append(r.Transitions, Transition{Name: "again", Key: "a", Status: "active"})
		}},
		{"bulk without field", func(r *Resource) {
			r.Transitions[0].BulkToken = "approve"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PostsFeed
			r.Transitions = append([]Transition(nil), PostsFeed.Transitions...)
			tt.mod(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestTransitionByKey(t *testing.T) {
	tr, bulk, ok := DigitalProducts.TransitionByKey("x")
	require.True(t, ok)
	assert.False(t, bulk)
	assert.Equal(t, "rejected", tr.Status)
	assert.True(t, tr.NeedsReason)

	tr, bulk, ok = DigitalProducts.TransitionByKey("A")
	require.True(t, ok)
	assert.True(t, bulk)
	assert.Equal(t, "approve", tr.Token())

	_, _, ok = DigitalProducts.TransitionByKey("z")
	assert.False(t, ok)
}

func TestTransitionToken(t *testing.T) {
	tr, ok := DigitalProducts.TransitionTo("rejected")
	require.True(t, ok)
	assert.Equal(t, "rejected", tr.Token(), "token defaults to status")

	tr, ok = BusinessSpaces.TransitionTo("ACTIVE")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", tr.Token())
}

func TestFiltersIncludeDeleted(t *testing.T) {
	assert.Equal(t, []string{"all", "in_review", "active", "inactive", "deleted"}, PostsFeed.Filters())
	assert.Equal(t, "Deleted", PostsFeed.StatusLabel("deleted"))
	assert.Equal(t, "Approved", PostsFeed.StatusLabel("active"))
	assert.Equal(t, "mystery", PostsFeed.StatusLabel("mystery"))
}

func TestAllowedHidesNoOps(t *testing.T) {
	allowed := PlatformUsers.Allowed("blocked")
	require.Len(t, allowed, 1)
	assert.Equal(t, "active", allowed[0].Status)
}

func TestLookup(t *testing.T) {
	r, ok := Lookup(Payouts)
	require.True(t, ok)
	assert.Equal(t, ClientPaging, r.Paging)
	assert.Equal(t, "reports", UserReports.Envelope())
	assert.Equal(t, "data", PostsFeed.Envelope())

	_, ok = Lookup("nope")
	assert.False(t, ok)
	assert.Len(t, Names(), len(All()))
}
