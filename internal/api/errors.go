package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// NetworkError means the request never completed: connection refused,
// timeout, cancelled context, or an unreadable response body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ApplicationError means the backend answered and refused: any non-2xx
// status, a 2xx carrying success:false, or a payload that does not decode.
type ApplicationError struct {
	Op        string
	Status    int
	Message   string
	RequestID string
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: %d: %s", e.Op, e.Status, msg)
}

// BulkError reports a fan-out where some per-record calls failed.
type BulkError struct {
	Total  int
	Failed map[string]error
}

func (e *BulkError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%d of %d failed (%s): %s", len(e.Failed), e.Total, strings.Join(ids, ", "), Message(e.Failed[ids[0]]))
}

// Unwrap exposes every per-record error to errors.Is/As.
func (e *BulkError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		out = append(out, err)
	}
	return out
}

// ErrNoIDs is returned when a mutation is asked to act on nothing.
var ErrNoIDs = errors.New("no record ids given")

// Message extracts the text a user should see for err. The backend's own
// message wins when there is one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var bulk *BulkError
	if errors.As(err, &bulk) {
		return bulk.Error()
	}
	var app *ApplicationError
	if errors.As(err, &app) {
		if app.Message != "" {
			return app.Message
		}
		return fmt.Sprintf("request failed with status %d", app.Status)
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "network error: " + netErr.Err.Error()
	}
	return err.Error()
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsApplication reports whether err is (or wraps) an ApplicationError.
func IsApplication(err error) bool {
	var app *ApplicationError
	return errors.As(err, &app)
}
