package agents

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/identity"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/routes"
)

// Guard wraps a handler with an authentication requirement.
type Guard func(http.HandlerFunc) http.HandlerFunc

// Handler provides HTTP handlers for agent registration, discovery, and
// profile management.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	guard      Guard
}

// NewHandler creates a new agents HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, guard Guard) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger,
		pagination: pagination,
		guard:      guard,
	}
}

// Routes returns the route group configuration for agent endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/agents",
		Tags:        []string{"Agents"},
		Description: "Agent registration and profiles",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{agent_id}", Handler: h.Find},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PATCH", Pattern: "/{agent_id}", Handler: h.guard(h.Update)},
		},
	}
}

// Register handles POST /api/agents/register to register a new agent identity.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /api/agents to retrieve a paginated list of agents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /api/agents/{agent_id} to retrieve a single agent.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.FindByAgentID(r.Context(), r.PathValue("agent_id"))
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search handles POST /api/agents/search to search agents with request body parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		pagination.PageRequest
		Filters
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.Skills = NormalizeTags(req.Skills)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/agents/{agent_id} to update the caller's profile.
// Only the owning agent may change its profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.AgentID(r.Context())
	if !ok || caller != r.PathValue("agent_id") {
		err := errors.New("cannot modify another agent's profile")
		handlers.RespondErrorCode(w, h.logger, http.StatusForbidden, ErrorCode(ErrNotOwner), err)
		return
	}

	var cmd UpdateProfileCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.UpdateProfile(r.Context(), caller, cmd)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
