package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/identity"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
)

// Middleware guards routes that require an authenticated session.
type Middleware struct {
	sessions *Sessions
	agents   agents.System
	logger   *slog.Logger
}

// NewMiddleware creates the session guard middleware.
func NewMiddleware(sessions *Sessions, sys agents.System, logger *slog.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		agents:   sys,
		logger:   logger.With("system", "auth"),
	}
}

// RequireSession validates the bearer token, confirms the agent still exists
// and is in good standing, and stores the agent identity in the request
// context for downstream handlers.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			handlers.RespondErrorCode(w, m.logger, http.StatusUnauthorized, ErrorCode(ErrSessionInvalid), ErrSessionInvalid)
			return
		}

		agentID, err := m.sessions.Validate(token)
		if err != nil {
			handlers.RespondErrorCode(w, m.logger, MapHTTPStatus(err), ErrorCode(err), err)
			return
		}

		agent, err := m.agents.FindByAgentID(r.Context(), agentID)
		if err != nil {
			handlers.RespondErrorCode(w, m.logger, http.StatusUnauthorized, ErrorCode(ErrSessionInvalid), ErrSessionInvalid)
			return
		}
		if !agent.Usable() {
			handlers.RespondErrorCode(w, m.logger, MapHTTPStatus(ErrAgentUnavailable), ErrorCode(ErrAgentUnavailable), ErrAgentUnavailable)
			return
		}

		next(w, r.WithContext(identity.With(r.Context(), agent.AgentID)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
