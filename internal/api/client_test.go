package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/mockapi"
	"github.com/abelbrown/moderator/internal/model"
)

func newTestClient(t *testing.T) (*Client, *mockapi.Server) {
	t.Helper()
	backend := mockapi.New(mockapi.Options{Seed: 7})
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Token: "test-token", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, backend
}

func query(size int) model.Query {
	return model.Query{PageSize: size, SortField: "createdAt", SortOrder: model.Desc, StatusFilter: model.StatusAll}
}

func statusOf(t *testing.T, backend *mockapi.Server, res, id string) string {
	t.Helper()
	for _, r := range backend.Records(res) {
		if r.ID == id {
			return r.Status
		}
	}
	t.Fatalf("record %s/%s not found", res, id)
	return ""
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost/api"})
	assert.Error(t, err)
}

func TestListParams(t *testing.T) {
	q := model.Query{Page: 2, PageSize: 10, SortField: "createdAt", SortOrder: model.Asc, SearchTerm: "cafe", StatusFilter: "active"}

	v := ListParams(catalog.DigitalProducts, q)
	assert.Equal(t, "3", v.Get("page"), "products are one-based")
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "cafe", v.Get("searchTerm"))
	assert.Equal(t, "createdAt", v.Get("sortBy"))
	assert.Equal(t, "asc", v.Get("order"))
	assert.Equal(t, "active", v.Get("status"))
	assert.False(t, v.Has("isDeleted"))

	q.StatusFilter = model.StatusAll
	v = ListParams(catalog.PostsFeed, q)
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "", v.Get("status"))
	assert.Equal(t, "false", v.Get("isDeleted"))

	q.StatusFilter = "deleted"
	v = ListParams(catalog.PostsFeed, q)
	assert.Equal(t, "true", v.Get("isDeleted"))
	assert.Equal(t, "", v.Get("status"))
}

func TestListServerPage(t *testing.T) {
	c, _ := newTestClient(t)
	page, err := c.List(context.Background(), catalog.DigitalProducts, query(10))
	require.NoError(t, err)

	assert.Len(t, page.Records, 10)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 25, page.MatchedCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "p001", page.Records[0].ID, "newest first, mongo ids")
}

func TestListLastPage(t *testing.T) {
	c, _ := newTestClient(t)
	q := query(10)
	q.Page = 2
	page, err := c.List(context.Background(), catalog.PostsFeed, q)
	require.NoError(t, err)
	assert.Len(t, page.Records, 5)
}

func TestListStatusFilterMatched(t *testing.T) {
	c, backend := newTestClient(t)
	want := 0
	for _, r := range backend.Records(catalog.Business) {
		if r.Status == "PENDING" {
			want++
		}
	}

	q := query(100)
	q.StatusFilter = "PENDING"
	page, err := c.List(context.Background(), catalog.BusinessSpaces, q)
	require.NoError(t, err)
	assert.Equal(t, want, page.MatchedCount)
	assert.Equal(t, 25, page.TotalCount)
	for _, r := range page.Records {
		assert.Equal(t, "PENDING", r.Status)
	}
}

func TestListReportsEnvelope(t *testing.T) {
	c, _ := newTestClient(t)
	page, err := c.List(context.Background(), catalog.UserReports, query(10))
	require.NoError(t, err)
	assert.Len(t, page.Records, 10)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListAll(t *testing.T) {
	c, _ := newTestClient(t)
	records, err := c.ListAll(context.Background(), catalog.CommentsFeed)
	require.NoError(t, err)
	assert.Len(t, records, 25)
}

func TestGetIsCachedUntilInvalidated(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	r, err := c.Get(ctx, catalog.PostsFeed, "po001")
	require.NoError(t, err)
	assert.Equal(t, "po001", r.ID)

	records := backend.Records(catalog.Posts)
	records[0] = records[0].With(map[string]any{"content": "edited"})
	backend.Seed(catalog.Posts, records)

	cached, err := c.Get(ctx, catalog.PostsFeed, "po001")
	require.NoError(t, err)
	assert.NotEqual(t, "edited", cached.Text("content"))

	c.Invalidate(catalog.PostsFeed, "po001")
	fresh, err := c.Get(ctx, catalog.PostsFeed, "po001")
	require.NoError(t, err)
	assert.Equal(t, "edited", fresh.Text("content"))
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Get(context.Background(), catalog.PostsFeed, "nope")
	require.Error(t, err)
	assert.True(t, IsApplication(err))
	assert.Equal(t, "not found", Message(err))
}

func TestSetStatusStyles(t *testing.T) {
	tests := []struct {
		res    catalog.Resource
		id     string
		status string
		reason string
	}{
		{catalog.PostsFeed, "po002", "inactive", ""},
		{catalog.BusinessSpaces, "b003", "REJECTED", "duplicate"},
		{catalog.DigitalProducts, "p004", "active", ""},
		{catalog.CommentsFeed, "c005", "hidden", ""},
		{catalog.PlatformUsers, "u006", "blocked", ""},
		{catalog.FinancePayouts, "PO-0007", "In Progress", ""},
	}
	for _, tt := range tests {
		t.Run(tt.res.Name, func(t *testing.T) {
			c, backend := newTestClient(t)
			tr, ok := tt.res.TransitionTo(tt.status)
			require.True(t, ok)
			require.NoError(t, c.SetStatus(context.Background(), tt.res, []string{tt.id}, tr, tt.reason))
			assert.Equal(t, tt.status, statusOf(t, backend, tt.res.Name, tt.id))
		})
	}
}

func TestBulkEndpoint(t *testing.T) {
	c, backend := newTestClient(t)
	stop, _ := catalog.DigitalProducts.TransitionTo("stopped")
	ids := []string{"p001", "p002", "p003"}
	require.NoError(t, c.SetStatus(context.Background(), catalog.DigitalProducts, ids, stop, "policy"))
	for _, id := range ids {
		assert.Equal(t, "stopped", statusOf(t, backend, catalog.Products, id))
	}
}

func TestBulkPayoutsCarryStatus(t *testing.T) {
	c, backend := newTestClient(t)
	done, _ := catalog.FinancePayouts.TransitionTo("Done")
	ids := []string{"PO-0001", "PO-0002"}
	require.NoError(t, c.SetStatus(context.Background(), catalog.FinancePayouts, ids, done, ""))
	for _, id := range ids {
		assert.Equal(t, "Done", statusOf(t, backend, catalog.Payouts, id))
	}
}

func TestFanOutCollectsFailures(t *testing.T) {
	c, backend := newTestClient(t)
	approve, _ := catalog.PostsFeed.TransitionTo("active")

	err := c.SetStatus(context.Background(), catalog.PostsFeed, []string{"po001", "missing", "po003"}, approve, "")
	require.Error(t, err)

	var bulk *BulkError
	require.ErrorAs(t, err, &bulk)
	assert.Equal(t, 3, bulk.Total)
	assert.Contains(t, bulk.Failed, "missing")
	assert.Len(t, bulk.Failed, 1)
	assert.True(t, IsApplication(err))
	assert.Contains(t, Message(err), "1 of 3 failed")
	assert.Equal(t, "active", statusOf(t, backend, catalog.Posts, "po001"))
}

func TestSetStatusNoIDs(t *testing.T) {
	c, _ := newTestClient(t)
	tr, _ := catalog.PostsFeed.TransitionTo("active")
	assert.ErrorIs(t, c.SetStatus(context.Background(), catalog.PostsFeed, nil, tr, ""), ErrNoIDs)
}

func TestApplicationErrorCarriesMessage(t *testing.T) {
	c, backend := newTestClient(t)
	backend.Fail(catalog.Posts, http.StatusForbidden, "moderators cannot delete pinned posts")

	err := c.Remove(context.Background(), catalog.PostsFeed, "po001")
	require.Error(t, err)
	var app *ApplicationError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, http.StatusForbidden, app.Status)
	assert.NotEmpty(t, app.RequestID)
	assert.Equal(t, "moderators cannot delete pinned posts", Message(err))
	assert.False(t, IsNetwork(err))

	backend.Recover(catalog.Posts)
	assert.NoError(t, c.Remove(context.Background(), catalog.PostsFeed, "po001"))
}

func TestSoftDeletedPostsListSeparately(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Remove(ctx, catalog.PostsFeed, "po004"))

	q := query(100)
	live, err := c.List(ctx, catalog.PostsFeed, q)
	require.NoError(t, err)
	assert.NotContains(t, model.IDs(live.Records), "po004")

	q.StatusFilter = "deleted"
	deleted, err := c.List(ctx, catalog.PostsFeed, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"po004"}, model.IDs(deleted.Records))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.List(context.Background(), catalog.PostsFeed, query(10))
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Contains(t, Message(err), "network error")
}

func TestSuccessFalseIsApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"already approved"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	tr, _ := catalog.PostsFeed.TransitionTo("active")
	err = c.SetStatus(context.Background(), catalog.PostsFeed, []string{"po1"}, tr, "")
	require.Error(t, err)
	assert.True(t, IsApplication(err))
	assert.Equal(t, "already approved", Message(err))
}

func TestMalformedListIsApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.List(context.Background(), catalog.PostsFeed, query(10))
	require.Error(t, err)
	assert.True(t, IsApplication(err))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Token: "abc"})
	require.NoError(t, err)
	records, err := c.ListAll(context.Background(), catalog.CommentsFeed)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
}

func TestFlagAndUserStatus(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetFlag(ctx, catalog.FinancePayouts, "PO-0003", true))
	for _, r := range backend.Records(catalog.Payouts) {
		if r.ID == "PO-0003" {
			assert.True(t, r.Bool("isFlagged"))
		}
	}

	report := backend.Records(catalog.Reports)[0]
	userID := report.Text("userId")
	require.NoError(t, c.SetUserStatus(ctx, userID, "blocked"))
	assert.Equal(t, "blocked", statusOf(t, backend, catalog.Users, userID))
	for _, r := range backend.Records(catalog.Reports) {
		if r.Text("userId") == userID {
			assert.Equal(t, "blocked", r.Text("userStatus"))
		}
	}
}

func TestRemoveTarget(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	comment := model.NewRecord(map[string]any{"id": "r1", "type": "comment", "resourceId": "c002"})
	require.NoError(t, c.RemoveTarget(ctx, comment))
	for _, r := range backend.Records(catalog.Comments) {
		assert.NotEqual(t, "c002", r.ID)
	}

	user := model.NewRecord(map[string]any{"id": "r2", "type": "user", "resourceId": "u001"})
	assert.Error(t, c.RemoveTarget(ctx, user))
}

func TestCounts(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	counts, err := c.Counts(ctx, catalog.BusinessSpaces)
	require.NoError(t, err)
	assert.Equal(t, 25, counts.Total())
	want := model.CountByStatus(backend.Records(catalog.Business))
	for _, st := range catalog.BusinessSpaces.Statuses {
		assert.Equal(t, want[st.Value], counts[st.Value], st.Value)
	}

	counts, err = c.Counts(ctx, catalog.FinancePayouts)
	require.NoError(t, err)
	assert.Equal(t, 25, counts.Total())
}

func TestOverviews(t *testing.T) {
	c, _ := newTestClient(t)
	rows := c.Overviews(context.Background(), catalog.All())
	require.Len(t, rows, len(catalog.All()))
	for _, row := range rows {
		assert.NoError(t, row.Err, row.Resource.Name)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	c, err := New(Options{BaseURL: "http://127.0.0.1:1", RateLimit: 0.001, Burst: 1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.List(ctx, catalog.PostsFeed, query(10))
	assert.True(t, IsNetwork(err))
}
