package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

// fanOutLimit bounds concurrent per-record calls for resources without a
// bulk endpoint.
const fanOutLimit = 4

// SetStatus applies a transition to ids. More than one id goes through the
// resource's bulk endpoint when it has one; otherwise each id is sent on
// its own and every failure is collected into a *BulkError.
func (c *Client) SetStatus(ctx context.Context, res catalog.Resource, ids []string, t catalog.Transition, reason string) error {
	if len(ids) == 0 {
		return ErrNoIDs
	}
	defer c.Invalidate(res, ids...)

	if len(ids) > 1 && t.BulkToken != "" && res.BulkIDsField != "" {
		return c.bulkStatus(ctx, res, ids, t, reason)
	}
	if len(ids) == 1 {
		return c.setOne(ctx, res, ids[0], t, reason)
	}

	var (
		mu     sync.Mutex
		failed = make(map[string]error)
	)
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for _, id := range ids {
		g.Go(func() error {
			if err := c.setOne(ctx, res, id, t, reason); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		return &BulkError{Total: len(ids), Failed: failed}
	}
	return nil
}

func (c *Client) setOne(ctx context.Context, res catalog.Resource, id string, t catalog.Transition, reason string) error {
	op := fmt.Sprintf("%s %s", t.Name, res.Name)
	switch res.Style {
	case catalog.StylePut:
		return c.do(ctx, op, http.MethodPut, c.endpoint(res.Path, id), map[string]any{"status": t.Status}, nil)
	case catalog.StylePathToken:
		body := map[string]any{}
		if reason != "" {
			body["reason"] = reason
		}
		return c.do(ctx, op, http.MethodPatch, c.endpoint(res.Path, id, t.Token()), body, nil)
	case catalog.StyleStatusPatch:
		body := map[string]any{"status": t.Status}
		if reason != "" {
			body["reason"] = reason
		}
		return c.do(ctx, op, http.MethodPatch, c.endpoint(res.Path, id, "status"), body, nil)
	}
	return fmt.Errorf("%s: unknown mutation style %v", op, res.Style)
}

func (c *Client) bulkStatus(ctx context.Context, res catalog.Resource, ids []string, t catalog.Transition, reason string) error {
	body := map[string]any{
		res.BulkIDsField: ids,
		"status":         t.Status,
	}
	if reason != "" {
		body["reason"] = reason
	}
	op := fmt.Sprintf("bulk %s %s", t.Name, res.Name)
	return c.do(ctx, op, http.MethodPatch, c.endpoint(res.Path, t.BulkToken, "multiple"), body, nil)
}

// Remove deletes one record. Never retried.
func (c *Client) Remove(ctx context.Context, res catalog.Resource, id string) error {
	defer c.Invalidate(res, id)
	return c.do(ctx, "delete "+res.Name, http.MethodDelete, c.endpoint(res.Path, id), nil, nil)
}

// SetFlag marks or unmarks a record for follow-up.
func (c *Client) SetFlag(ctx context.Context, res catalog.Resource, id string, flagged bool) error {
	defer c.Invalidate(res, id)
	return c.do(ctx, "flag "+res.Name, http.MethodPatch, c.endpoint(res.Path, id, "flag"),
		map[string]any{"isFlagged": flagged}, nil)
}

// SetUserStatus changes a platform user's status directly. Reports use it
// to block or unblock the reported account.
func (c *Client) SetUserStatus(ctx context.Context, userID, status string) error {
	defer c.Invalidate(catalog.PlatformUsers, userID)
	return c.do(ctx, "user status", http.MethodPatch, c.endpoint(catalog.PlatformUsers.Path, userID, "status"),
		map[string]any{"status": status}, nil)
}

// ReportTarget resolves which record a report points at.
func ReportTarget(report model.Record) (catalog.Resource, string, error) {
	id := report.Text("resourceId")
	if id == "" {
		return catalog.Resource{}, "", fmt.Errorf("report %s has no resourceId", report.ID)
	}
	switch report.Text("type") {
	case "post":
		return catalog.PostsFeed, id, nil
	case "comment":
		return catalog.CommentsFeed, id, nil
	}
	return catalog.Resource{}, "", fmt.Errorf("report %s targets a %q, which cannot be deleted", report.ID, report.Text("type"))
}

// RemoveTarget deletes the post or comment a report was filed against.
func (c *Client) RemoveTarget(ctx context.Context, report model.Record) error {
	res, id, err := ReportTarget(report)
	if err != nil {
		return err
	}
	return c.Remove(ctx, res, id)
}
