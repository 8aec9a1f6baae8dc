package agents

import (
	"errors"
	"net/http"
)

// Domain errors for agent operations.
var (
	ErrNotFound      = errors.New("agent not found")
	ErrDuplicateKey  = errors.New("public key already registered")
	ErrInvalidKey    = errors.New("invalid public key format")
	ErrInvalidInput  = errors.New("invalid agent profile")
	ErrNotOwner      = errors.New("profile belongs to a different agent")
	ErrInvalidStatus = errors.New("invalid agent status")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicateKey) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotOwner) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ErrorCode maps domain errors to stable machine-readable wire codes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "agent_not_found"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key_format"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_profile"
	case errors.Is(err, ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, ErrNotOwner):
		return "forbidden"
	}
	return "internal_error"
}
