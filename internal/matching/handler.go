package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/identity"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/routes"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Guard wraps a handler with an authentication requirement.
type Guard func(http.HandlerFunc) http.HandlerFunc

// Handler provides HTTP handlers for compatibility scoring and match search.
type Handler struct {
	agents agents.System
	logger *slog.Logger
	guard  Guard
}

// NewHandler creates a new matching HTTP handler.
func NewHandler(sys agents.System, logger *slog.Logger, guard Guard) *Handler {
	return &Handler{
		agents: sys,
		logger: logger,
		guard:  guard,
	}
}

// Routes returns the route group configuration for matching endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/matching",
		Tags:        []string{"Matching"},
		Description: "Compatibility scoring and partner search",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/score", Handler: h.guard(h.Score)},
			{Method: "POST", Pattern: "/search", Handler: h.guard(h.Search)},
		},
	}
}

type scoreRequest struct {
	CandidateID string `json:"candidate_id"`
	Mission     string `json:"mission,omitempty"`
}

// scoredCandidate is the wire representation: scores scaled to 0-100.
type scoredCandidate struct {
	AgentID            string   `json:"agent_id"`
	CompatibilityScore float64  `json:"compatibility_score"`
	SkillScore         float64  `json:"skill_score"`
	StyleScore         float64  `json:"style_score"`
	GoalScore          float64  `json:"goal_score"`
	Reasons            []string `json:"reasons"`
}

func toWire(c MatchCandidate) scoredCandidate {
	scale := func(v float64) float64 {
		return math.Round(v*1000) / 10
	}
	return scoredCandidate{
		AgentID:            c.AgentID,
		CompatibilityScore: scale(c.Overall),
		SkillScore:         scale(c.Skill),
		StyleScore:         scale(c.Style),
		GoalScore:          scale(c.Goal),
		Reasons:            c.Reasons,
	}
}

// Score handles POST /api/matching/score to score one candidate against the
// authenticated agent.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	requester, err := h.agents.FindByAgentID(r.Context(), agentID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	candidate, err := h.agents.FindByAgentID(r.Context(), req.CandidateID)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			err = ErrCandidateNotFound
		}
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), ErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toWire(Score(requester, candidate, req.Mission)))
}

type searchRequest struct {
	Mission        string   `json:"mission,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	MinReputation  *int     `json:"min_reputation,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type searchResponse struct {
	Candidates []scoredCandidate `json:"candidates"`
}

// Search handles POST /api/matching/search to rank active agents against the
// authenticated agent. The requester is never its own candidate.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	agentID, _ := identity.AgentID(r.Context())

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	requester, err := h.agents.FindByAgentID(r.Context(), agentID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	active := string(agents.StatusActive)
	filters := agents.Filters{
		Status:        &active,
		Skills:        agents.NormalizeTags(req.RequiredSkills),
		MinReputation: req.MinReputation,
	}

	page := pagination.PageRequest{Page: 1, PageSize: maxSearchLimit}
	result, err := h.agents.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	candidates := make([]MatchCandidate, 0, len(result.Data))
	for i := range result.Data {
		c := &result.Data[i]
		if c.AgentID == requester.AgentID {
			continue
		}
		candidates = append(candidates, Score(requester, c, req.Mission))
	}

	Rank(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	wire := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		wire[i] = toWire(c)
	}

	handlers.RespondJSON(w, http.StatusOK, searchResponse{Candidates: wire})
}
