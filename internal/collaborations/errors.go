package collaborations

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Domain errors for collaboration and message operations.
var (
	ErrNotFound       = errors.New("collaboration not found")
	ErrNotParticipant = errors.New("agent is not a participant in this collaboration")
	ErrInvalidInput   = errors.New("invalid collaboration")
	ErrInvalidState   = errors.New("collaboration is not accepting this operation")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrMessageTooLong = errors.New("message exceeds maximum length")
	ErrRateLimited    = errors.New("message rate limit exceeded")
	ErrDuplicate      = errors.New("collaboration already exists")
)

// RateLimitError wraps ErrRateLimited with the time the caller must wait
// before the sliding window admits another message.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotParticipant) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidRating) || errors.Is(err, ErrMessageTooLong) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// ErrorCode maps domain errors to stable machine-readable wire codes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "collaboration_not_found"
	case errors.Is(err, ErrNotParticipant):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_collaboration"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrDuplicate):
		return "duplicate_collaboration"
	}
	return "internal_error"
}
