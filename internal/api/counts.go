package api

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

// Counts returns per-status record counts for badges. Client-paged
// resources count the loaded collection; server-paged ones ask for one
// status at a time, in parallel, and read the matched total.
func (c *Client) Counts(ctx context.Context, res catalog.Resource) (model.StatusCounts, error) {
	if res.Paging == catalog.ClientPaging {
		records, err := c.ListAll(ctx, res)
		if err != nil {
			return nil, err
		}
		return model.CountByStatus(records), nil
	}

	var mu sync.Mutex
	counts := make(model.StatusCounts, len(res.Statuses))
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range res.Statuses {
		g.Go(func() error {
			page, err := c.List(gctx, res, model.Query{
				PageSize:     1,
				SortField:    res.DefaultSort,
				SortOrder:    model.Desc,
				StatusFilter: s.Value,
			})
			if err != nil {
				return fmt.Errorf("count %s: %w", s.Value, err)
			}
			mu.Lock()
			counts[s.Value] = page.MatchedCount
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Overview is one dashboard row.
type Overview struct {
	Resource catalog.Resource
	Counts   model.StatusCounts
	Err      error
}

// Overviews counts every resource in parallel. A failing resource is
// reported on its row and does not fail the others.
func (c *Client) Overviews(ctx context.Context, resources []catalog.Resource) []Overview {
	out := make([]Overview, len(resources))
	var g errgroup.Group
	for i, res := range resources {
		g.Go(func() error {
			counts, err := c.Counts(ctx, res)
			out[i] = Overview{Resource: res, Counts: counts, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
