package auth

import (
	"errors"
	"net/http"
)

// Domain errors for the challenge-response flow and session handling. Each
// maps to a distinct stable wire code so callers can tell failure modes
// apart, with one deliberate exception: all session validation failures
// collapse into ErrSessionInvalid so token errors leak nothing about why a
// token was rejected.
var (
	ErrInvalidKeyFormat  = errors.New("invalid public key format")
	ErrKeyNotRegistered  = errors.New("public key not registered")
	ErrChallengeNotFound = errors.New("challenge not found or already consumed")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrSignatureInvalid  = errors.New("signature verification failed")
	ErrSessionInvalid    = errors.New("session invalid")
	ErrAgentUnavailable  = errors.New("agent suspended or banned")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidKeyFormat) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrKeyNotRegistered) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrChallengeExpired) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrSessionInvalid) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrAgentUnavailable) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ErrorCode maps domain errors to stable machine-readable wire codes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidKeyFormat):
		return "invalid_key_format"
	case errors.Is(err, ErrKeyNotRegistered):
		return "key_not_registered"
	case errors.Is(err, ErrChallengeNotFound):
		return "challenge_not_found"
	case errors.Is(err, ErrChallengeExpired):
		return "challenge_expired"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrSessionInvalid):
		return "session_invalid"
	case errors.Is(err, ErrAgentUnavailable):
		return "agent_unavailable"
	}
	return "internal_error"
}
