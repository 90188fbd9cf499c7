package peer

import (
	"errors"
	"fmt"

	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
)

// Category is the normalized failure taxonomy for peer calls. Every category
// means the peer could not give an answer; "entity absent" is not an error.
type Category string

const (
	// CategoryTimeout indicates the peer exceeded the per-call ceiling
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates connection refused, DNS failure or a 5xx
	CategoryOutage Category = "provider_outage"

	// CategoryRejectedStatus indicates a 4xx other than 404
	CategoryRejectedStatus Category = "rejected_status"

	// CategoryBadData indicates a body that does not match the entity contract
	CategoryBadData Category = "bad_data"

	// CategoryCircuitOpen indicates the call was not attempted
	CategoryCircuitOpen Category = "circuit_open"

	// CategoryCancelled indicates the caller abandoned the operation
	CategoryCancelled Category = "cancelled"
)

const (
	opFetchOne = "fetch_one"
	opFetchAll = "fetch_all"
)

// maxSnippet bounds how much of a peer body is kept for diagnostics.
const maxSnippet = 256

// Error is returned for every unavailable outcome. It matches
// sentinel.ErrUnavailable under errors.Is.
type Error struct {
	Category   Category
	Kind       reference.Kind
	Op         string
	StatusCode int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("peer %s %s [%s]: %s", e.Kind, e.Op, e.Category, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Underlying == nil {
		return []error{sentinel.ErrUnavailable}
	}
	return []error{sentinel.ErrUnavailable, e.Underlying}
}

func newError(category Category, kind reference.Kind, op, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Kind:       kind,
		Op:         op,
		Message:    message,
		Underlying: underlying,
	}
}

// IsUnavailable reports whether err means a peer could not answer.
func IsUnavailable(err error) bool {
	return errors.Is(err, sentinel.ErrUnavailable)
}

// GetCategory extracts the category from an error chain.
func GetCategory(err error) (Category, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category, true
	}
	return "", false
}

// snippet truncates a peer body for log output.
func snippet(body []byte) string {
	if len(body) > maxSnippet {
		return string(body[:maxSnippet]) + "..."
	}
	return string(body)
}

var ErrUnknownKind = errors.New("no peer client registered for kind")
