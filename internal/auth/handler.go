package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/identity"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/routes"
)

// Handler provides HTTP handlers for the challenge-response flow.
type Handler struct {
	challenges *Challenges
	verifier   *Verifier
	sessions   *Sessions
	agents     agents.System
	middleware *Middleware
	logger     *slog.Logger
}

// NewHandler creates a new auth HTTP handler.
func NewHandler(challenges *Challenges, verifier *Verifier, sessions *Sessions, sys agents.System, mw *Middleware, logger *slog.Logger) *Handler {
	return &Handler{
		challenges: challenges,
		verifier:   verifier,
		sessions:   sessions,
		agents:     sys,
		middleware: mw,
		logger:     logger,
	}
}

// Routes returns the route group configuration for auth endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/auth",
		Tags:        []string{"Auth"},
		Description: "Challenge-response authentication and sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/challenge", Handler: h.Challenge},
			{Method: "POST", Pattern: "/verify", Handler: h.Verify},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh},
			{Method: "GET", Pattern: "/me", Handler: h.middleware.RequireSession(h.Me)},
		},
	}
}

type challengeRequest struct {
	PublicKey string `json:"public_key"`
}

type challengeResponse struct {
	Nonce     string `json:"nonce"`
	ExpiresIn int    `json:"expires_in"`
}

// Challenge handles POST /api/auth/challenge to issue a signing challenge.
func (h *Handler) Challenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ch, err := h.challenges.Issue(r.Context(), req.PublicKey)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, challengeResponse{
		Nonce:     ch.Nonce,
		ExpiresIn: int(h.challenges.TTL().Seconds()),
	})
}

type verifyRequest struct {
	PublicKey string `json:"public_key"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	AgentID     string `json:"agent_id"`
	ExpiresIn   int    `json:"expires_in"`
}

// Verify handles POST /api/auth/verify to exchange a signed challenge for a
// session token. A pending agent is activated on its first successful proof.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	agent, err := h.verifier.Verify(r.Context(), req.PublicKey, req.Nonce, req.Signature)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	if !agent.Usable() {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(ErrAgentUnavailable), ErrorCode(ErrAgentUnavailable), ErrAgentUnavailable)
		return
	}

	if agent.Status == agents.StatusPending {
		if agent, err = h.agents.SetStatus(r.Context(), agent.AgentID, agents.StatusActive); err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
			return
		}
	}

	token, err := h.sessions.Create(agent)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sessionResponse{
		AccessToken: token,
		AgentID:     agent.AgentID,
		ExpiresIn:   int(h.sessions.TTL().Seconds()),
	})
}

// Refresh handles POST /api/auth/refresh to exchange a valid session token
// for a fresh one.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		handlers.RespondErrorCode(w, h.logger, http.StatusUnauthorized, ErrorCode(ErrSessionInvalid), ErrSessionInvalid)
		return
	}

	fresh, agent, err := h.sessions.Refresh(r.Context(), token)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sessionResponse{
		AccessToken: fresh,
		AgentID:     agent.AgentID,
		ExpiresIn:   int(h.sessions.TTL().Seconds()),
	})
}

type meResponse struct {
	Agent           *agents.Agent `json:"agent"`
	ProfileComplete bool          `json:"profile_complete"`
}

// Me handles GET /api/auth/me to return the authenticated agent's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	agent, err := h.agents.FindByAgentID(r.Context(), agentID)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, agents.MapHTTPStatus(err), agents.ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meResponse{
		Agent:           agent,
		ProfileComplete: agent.ProfileComplete(),
	})
}
