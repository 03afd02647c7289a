package bookingapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

// statusError carries the normalized backend failure: HTTP status, the best
// human-readable message we could dig out of the body, and a Retry-After
// hint when the server sent one.
type statusError struct {
	status     int
	msg        string
	retryAfter time.Duration
	sentinel   error
}

func (e *statusError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("booking api %d: %s", e.status, e.msg)
	}
	return fmt.Sprintf("booking api %d", e.status)
}

func (e *statusError) Unwrap() error { return e.sentinel }

func newAPIError(resp *http.Response, body []byte) error {
	e := &statusError{
		status:     resp.StatusCode,
		msg:        extractMessage(body),
		retryAfter: retryAfter(resp.Header.Get("Retry-After")),
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.sentinel = domain.ErrUnauthorized
	case http.StatusForbidden:
		e.sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		e.sentinel = domain.ErrNotFound
	case http.StatusTooManyRequests:
		e.sentinel = domain.ErrRateLimited
	}
	return e
}

// extractMessage probes the error-envelope shapes the backend has been seen
// to produce: {"detail"}, {"message"}, {"error"}, and per-field validation
// maps ({"field": ["msg", ...]}).
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, k := range []string{"detail", "message", "error"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	// field -> []string validation shape; keep field order stable
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		arr, ok := m[k].([]any)
		if !ok {
			continue
		}
		var msgs []string
		for _, v := range arr {
			if s, ok := v.(string); ok {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			parts = append(parts, k+": "+strings.Join(msgs, "; "))
		}
	}
	return strings.Join(parts, ", ")
}
