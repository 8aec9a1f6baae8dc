package matching

import (
	"errors"
	"net/http"
)

// Domain errors for matching operations.
var (
	ErrCandidateNotFound = errors.New("candidate agent not found")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrCandidateNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorCode maps domain errors to stable machine-readable wire codes.
func ErrorCode(err error) string {
	if errors.Is(err, ErrCandidateNotFound) {
		return "candidate_not_found"
	}
	return "internal_error"
}
