package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

// ListParams translates a query into the backend's list parameters.
// Page is shifted by the resource's page base.
func ListParams(res catalog.Resource, q model.Query) url.Values {
	v := url.Values{}
	v.Set("searchTerm", q.SearchTerm)
	v.Set("sortBy", q.SortField)
	v.Set("order", string(q.SortOrder))
	v.Set("page", strconv.Itoa(q.Page+res.PageBase))
	v.Set("limit", strconv.Itoa(q.PageSize))

	status := ""
	if q.FiltersByStatus() {
		status = q.StatusFilter
	}
	if res.DeletedFilter != "" {
		if status == res.DeletedFilter {
			v.Set("isDeleted", "true")
			status = ""
		} else {
			v.Set("isDeleted", "false")
		}
	}
	v.Set("status", status)
	return v
}

// List fetches one server-side page.
func (c *Client) List(ctx context.Context, res catalog.Resource, q model.Query) (model.PageResult, error) {
	u := c.endpoint(res.Path)
	u.RawQuery = ListParams(res, q).Encode()

	var raw json.RawMessage
	if err := c.do(ctx, "list "+res.Name, http.MethodGet, u, nil, &raw); err != nil {
		return model.PageResult{}, err
	}
	page, err := decodePage(res, raw, q.PageSize)
	if err != nil {
		return model.PageResult{}, &ApplicationError{Op: "list " + res.Name, Status: http.StatusOK, Message: err.Error()}
	}
	return page, nil
}

// ListAll fetches the whole collection for client-paged resources.
func (c *Client) ListAll(ctx context.Context, res catalog.Resource) ([]model.Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list all "+res.Name, http.MethodGet, c.endpoint(res.Path), nil, &raw); err != nil {
		return nil, err
	}
	page, err := decodePage(res, raw, 0)
	if err != nil {
		return nil, &ApplicationError{Op: "list all " + res.Name, Status: http.StatusOK, Message: err.Error()}
	}
	return page.Records, nil
}

// pageEnvelope covers every list shape the backend returns. Counts are
// pointers so that "absent" and "zero" differ.
type pageEnvelope struct {
	TotalCount *int `json:"totalCount"`
	Total      *int `json:"total"`
	Matched    *int `json:"matched"`
	TotalPages *int `json:"totalPages"`
}

func decodePage(res catalog.Resource, raw json.RawMessage, pageSize int) (model.PageResult, error) {
	raw = bytes.TrimSpace(raw)
	var records []model.Record

	// Some endpoints answer with a bare array.
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &records); err != nil {
			return model.PageResult{}, fmt.Errorf("decode records: %w", err)
		}
		n := len(records)
		return model.PageResult{Records: records, TotalCount: n, MatchedCount: n, TotalPages: pagesFor(n, pageSize)}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.PageResult{}, fmt.Errorf("decode envelope: %w", err)
	}
	list, ok := fields[res.Envelope()]
	if !ok {
		return model.PageResult{}, fmt.Errorf("missing %q in response", res.Envelope())
	}
	if err := json.Unmarshal(list, &records); err != nil {
		return model.PageResult{}, fmt.Errorf("decode records: %w", err)
	}

	var env pageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.PageResult{}, fmt.Errorf("decode counts: %w", err)
	}

	total := len(records)
	switch {
	case env.TotalCount != nil:
		total = *env.TotalCount
	case env.Total != nil:
		total = *env.Total
	}
	matched := total
	if env.Matched != nil {
		matched = *env.Matched
	}
	pages := pagesFor(matched, pageSize)
	if env.TotalPages != nil {
		pages = *env.TotalPages
	}

	return model.PageResult{
		Records:      records,
		TotalCount:   total,
		MatchedCount: matched,
		TotalPages:   pages,
	}, nil
}

func pagesFor(n, pageSize int) int {
	if pageSize <= 0 {
		if n > 0 {
			return 1
		}
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Get fetches one record, served from the detail cache when fresh.
func (c *Client) Get(ctx context.Context, res catalog.Resource, id string) (model.Record, error) {
	key := cacheKey(res, id)
	if r, ok := c.details.Get(key); ok {
		return r, nil
	}

	var raw map[string]json.RawMessage
	op := "get " + res.Name
	if err := c.do(ctx, op, http.MethodGet, c.endpoint(res.Path, id), nil, &raw); err != nil {
		return model.Record{}, err
	}

	body := raw
	if _, hasID := raw[model.FieldID]; !hasID {
		if _, hasMongo := raw[model.FieldMongo]; !hasMongo {
			if data, ok := raw["data"]; ok {
				if err := json.Unmarshal(data, &body); err != nil {
					return model.Record{}, &ApplicationError{Op: op, Status: http.StatusOK, Message: err.Error()}
				}
			}
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Record{}, &ApplicationError{Op: op, Status: http.StatusOK, Message: err.Error()}
	}
	c.details.Add(key, rec)
	return rec, nil
}

// Invalidate drops cached details for ids.
func (c *Client) Invalidate(res catalog.Resource, ids ...string) {
	for _, id := range ids {
		c.details.Remove(cacheKey(res, id))
	}
}

func cacheKey(res catalog.Resource, id string) string {
	return res.Name + "/" + id
}
