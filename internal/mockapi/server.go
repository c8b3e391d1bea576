// Package mockapi is an in-memory implementation of the moderation REST
// backend. cmd/mockapi serves it for local development and the API client
// tests run against it through httptest.
package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/model"
)

// Options configures a Server.
type Options struct {
	// Latency delays every request by a random duration up to this value,
	// so responses can arrive out of order.
	Latency time.Duration
	Seed    int64
	// PerResource is the fixture count per resource; zero uses 25.
	PerResource int
}

// Server holds the fixture data. Safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	data    map[string][]model.Record
	failing map[string]failure
	latency time.Duration
	rng     *rand.Rand
	reg     *prometheus.Registry
	metrics *metrics
}

type failure struct {
	status  int
	message string
}

// New creates a server seeded with generated fixtures.
func New(opts Options) *Server {
	n := opts.PerResource
	if n <= 0 {
		n = 25
	}
	reg := prometheus.NewRegistry()
	return &Server{
		data:    Fixtures(opts.Seed, n),
		failing: make(map[string]failure),
		latency: opts.Latency,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		reg:     reg,
		metrics: newMetrics(reg),
	}
}

// Seed replaces a resource's records.
func (s *Server) Seed(resource string, records []model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[resource] = slices.Clone(records)
}

// Records returns a copy of a resource's records.
func (s *Server) Records(resource string) []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data[resource])
}

// Fail makes every mutation on resource answer with status and message
// until Recover is called.
func (s *Server) Fail(resource string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[resource] = failure{status: status, message: message}
}

// Recover clears a Fail.
func (s *Server) Recover(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failing, resource)
}

// Handler returns the chi router serving every catalog resource plus
// /metrics and /health.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.metrics.middleware)
	if s.latency > 0 {
		r.Use(s.delay)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	for _, res := range catalog.All() {
		r.Route(res.Path, func(r chi.Router) {
			r.Get("/", s.list(res))
			r.Get("/{id}", s.get(res))
			r.Put("/{id}", s.put(res))
			r.Delete("/{id}", s.remove(res))
			r.Patch("/{id}/{op}", s.patch(res))
		})
	}
	return r
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := time.Duration(s.rng.Int63n(int64(s.latency)))
		s.mu.Unlock()
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.mu.Lock()
		all := slices.Clone(s.data[res.Name])
		s.mu.Unlock()

		deleted := q.Get("isDeleted") == "true"
		visible := all[:0:0]
		for _, rec := range all {
			if res.DeletedFilter != "" && rec.Bool("isDeleted") != deleted {
				continue
			}
			visible = append(visible, rec)
		}
		total := len(visible)

		status := q.Get("status")
		matched := visible[:0:0]
		for _, rec := range visible {
			if status != "" && status != model.StatusAll && rec.Status != status {
				continue
			}
			if !model.Matches(rec, q.Get("searchTerm"), res.SearchFields) {
				continue
			}
			matched = append(matched, rec)
		}

		if field := q.Get("sortBy"); field != "" {
			desc := q.Get("order") == string(model.Desc)
			slices.SortStableFunc(matched, func(a, b model.Record) int {
				c := model.Compare(a, b, field)
				if desc {
					return -c
				}
				return c
			})
		}

		page := matched
		limit, _ := strconv.Atoi(q.Get("limit"))
		pages := 1
		if limit > 0 {
			n, _ := strconv.Atoi(q.Get("page"))
			n -= res.PageBase
			if n < 0 {
				n = 0
			}
			lo := min(n*limit, len(matched))
			hi := min(lo+limit, len(matched))
			page = matched[lo:hi]
			pages = (len(matched) + limit - 1) / limit
		}

		body := map[string]any{
			res.Envelope(): page,
			"totalCount":   total,
			"matched":      len(matched),
		}
		if res.Envelope() != "data" {
			body["totalPages"] = pages
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func (s *Server) get(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		i := s.index(res.Name, id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.data[res.Name][i]})
	}
}

func (s *Server) put(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid body"})
			return
		}
		s.mutate(w, res, []string{chi.URLParam(r, "id")}, map[string]any{"status": body.Status}, "Status updated")
	}
}

func (s *Server) remove(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		if f, ok := s.failing[res.Name]; ok {
			writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
			return
		}
		i := s.index(res.Name, id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
			return
		}
		records := s.data[res.Name]
		if res.DeletedFilter != "" {
			records[i] = records[i].With(map[string]any{"isDeleted": true})
		} else {
			s.data[res.Name] = slices.Delete(records, i, i+1)
		}
		logging.Debug("mockapi delete", "resource", res.Name, "id", id)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// patch serves every PATCH shape: /<id>/status, /<id>/flag,
// /<token>/multiple and /<id>/<TOKEN>.
func (s *Server) patch(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, op := chi.URLParam(r, "id"), chi.URLParam(r, "op")
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid body"})
			return
		}

		switch op {
		case "multiple":
			status, ok := bulkStatus(res, id, body)
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "unknown bulk action " + id})
				return
			}
			s.mutate(w, res, stringsOf(body[res.BulkIDsField]), map[string]any{"status": status}, "Records updated")
		case "status":
			status, _ := body["status"].(string)
			s.mutate(w, res, []string{id}, map[string]any{"status": status}, "Status updated")
		case "flag":
			flagged, _ := body["isFlagged"].(bool)
			s.mutate(w, res, []string{id}, map[string]any{"isFlagged": flagged}, "Flag updated")
		default:
			t, ok := tokenTransition(res, op)
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "unknown action " + op})
				return
			}
			fields := map[string]any{"status": t.Status}
			if reason, _ := body["reason"].(string); reason != "" {
				fields["reason"] = reason
			}
			s.mutate(w, res, []string{id}, fields, "Record "+id+": "+t.Name)
		}
	}
}

// mutate applies fields to every id atomically: either all ids exist and
// the status is valid, or nothing changes.
func (s *Server) mutate(w http.ResponseWriter, res catalog.Resource, ids []string, fields map[string]any, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.failing[res.Name]; ok {
		writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
		return
	}
	if len(ids) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "no ids"})
		return
	}
	if st, ok := fields["status"]; ok {
		if v, _ := st.(string); !res.HasStatus(v) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "invalid status"})
			return
		}
	}

	idx := make([]int, len(ids))
	for n, id := range ids {
		i := s.index(res.Name, id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "record " + id + " not found"})
			return
		}
		idx[n] = i
	}
	records := s.data[res.Name]
	for _, i := range idx {
		records[i] = records[i].With(fields)
	}

	if res.Name == catalog.Users {
		if st, ok := fields["status"]; ok {
			s.syncReportedUser(ids, st)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

// syncReportedUser mirrors a user's status onto reports about them.
func (s *Server) syncReportedUser(ids []string, status any) {
	reports := s.data[catalog.Reports]
	for i, rep := range reports {
		if slices.Contains(ids, rep.Text("userId")) {
			reports[i] = rep.With(map[string]any{"userStatus": status})
		}
	}
}

func (s *Server) index(resource, id string) int {
	return slices.IndexFunc(s.data[resource], func(r model.Record) bool { return r.ID == id })
}

func bulkStatus(res catalog.Resource, token string, body map[string]any) (string, bool) {
	for _, t := range res.Transitions {
		if t.BulkToken != token {
			continue
		}
		// A shared token ("status") carries the target in the body.
		if st, ok := body["status"].(string); ok && res.HasStatus(st) {
			return st, true
		}
		return t.Status, true
	}
	return "", false
}

func tokenTransition(res catalog.Resource, token string) (catalog.Transition, bool) {
	for _, t := range res.Transitions {
		if t.Token() == token {
			return t, true
		}
	}
	return catalog.Transition{}, false
}

func stringsOf(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("mockapi encode", "error", err)
	}
}
