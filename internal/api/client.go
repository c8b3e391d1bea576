// Package api is the REST client for the moderation backend.
//
// Every call is a single attempt: nothing is retried automatically, DELETE
// included. Failures come back as *NetworkError or *ApplicationError so the
// controller can turn them into one notice.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/model"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// maxMessageRunes caps a raw error body shown as a message.
const maxMessageRunes = 200

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// RateLimit is requests per second; zero or negative disables limiting.
	RateLimit float64
	Burst     int

	DetailCacheSize int
	DetailCacheTTL  time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the backend. Safe for concurrent use; bubbletea commands
// run on their own goroutines.
type Client struct {
	base    *url.URL
	token   string
	client  *http.Client
	limiter *rate.Limiter
	details *expirable.LRU[string, model.Record]
}

// New creates a Client. The base URL must be absolute.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	size := opts.DetailCacheSize
	if size <= 0 {
		size = 256
	}
	ttl := opts.DetailCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Client{
		base:    base,
		token:   opts.Token,
		client:  httpClient,
		limiter: limiter,
		details: expirable.NewLRU[string, model.Record](size, nil, ttl),
	}, nil
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) *url.URL {
	parts := make([]string, 0, len(segments)+2)
	for _, s := range segments {
		for _, p := range strings.Split(s, "/") {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	return c.base.JoinPath(parts...)
}

// envelope is the common mutation reply.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request. body is JSON-encoded when non-nil; out receives
// the decoded response when non-nil.
func (c *Client) do(ctx context.Context, op, method string, u *url.URL, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Warn("request failed", "op", op, "method", method, "url", u.String(), "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	logging.Debug("request", "op", op, "method", method, "url", u.String(), "status", resp.StatusCode,
		"dur", time.Since(start), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ApplicationError{
			Op:        op,
			Status:    resp.StatusCode,
			Message:   backendMessage(data),
			RequestID: requestID,
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	// A 2xx can still carry a refusal.
	var env envelope
	if json.Unmarshal(data, &env) == nil && env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &ApplicationError{Op: op, Status: resp.StatusCode, Message: msg, RequestID: requestID}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &ApplicationError{
			Op:        op,
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("malformed response: %v", err),
			RequestID: requestID,
		}
	}
	return nil
}

// backendMessage pulls "message" or "error" out of an error body, falling
// back to the raw text.
func backendMessage(data []byte) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	if r := []rune(msg); len(r) > maxMessageRunes {
		msg = string(r[:maxMessageRunes])
	}
	return msg
}
