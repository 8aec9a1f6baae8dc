package collaborations

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/identity"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/routes"
)

// Guard wraps a handler with an authentication requirement.
type Guard func(http.HandlerFunc) http.HandlerFunc

// Handler provides HTTP handlers for collaborations and their messages.
// Every route requires an authenticated session.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	guard      Guard
}

// NewHandler creates a new collaborations HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, guard Guard) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger,
		pagination: pagination,
		guard:      guard,
	}
}

// Routes returns the route group configuration for collaboration endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/collaborations",
		Tags:        []string{"Collaborations"},
		Description: "Agent collaborations and safety-gated messaging",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.guard(h.Create)},
			{Method: "GET", Pattern: "", Handler: h.guard(h.List)},
			{Method: "GET", Pattern: "/{collab_id}", Handler: h.guard(h.Get)},
			{Method: "POST", Pattern: "/{collab_id}/messages", Handler: h.guard(h.SendMessage)},
			{Method: "GET", Pattern: "/{collab_id}/messages", Handler: h.guard(h.ListMessages)},
			{Method: "POST", Pattern: "/{collab_id}/complete", Handler: h.guard(h.Complete)},
		},
	}
}

// Create handles POST /api/collaborations to start a collaboration.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Create(r.Context(), agentID, cmd)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /api/collaborations to list the caller's collaborations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), agentID, page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get handles GET /api/collaborations/{collab_id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	result, err := h.sys.Get(r.Context(), agentID, r.PathValue("collab_id"))
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/collaborations/{collab_id}/messages. Rate
// limited requests get a Retry-After header alongside the error body.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.SendMessage(r.Context(), agentID, r.PathValue("collab_id"), req.Content)
	if err != nil {
		var rle *RateLimitError
		if errors.As(err, &rle) {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rle.RetryAfter.Seconds()))))
		}
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ListMessages handles GET /api/collaborations/{collab_id}/messages,
// returning messages in chronological order.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListMessages(r.Context(), agentID, r.PathValue("collab_id"), page)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

type completeRequest struct {
	Rating int `json:"rating"`
}

// Complete handles POST /api/collaborations/{collab_id}/complete to finish a
// collaboration with a 1-5 outcome rating.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Complete(r.Context(), agentID, r.PathValue("collab_id"), req.Rating)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
