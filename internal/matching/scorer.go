// Package matching implements the compatibility scoring engine: a pure,
// stateless combination of skill overlap, style alignment, and goal
// alignment between two agent profiles.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
)

// Component weights. They sum to 1 so the overall score stays in [0, 1].
const (
	weightSkill = 0.40
	weightStyle = 0.30
	weightGoal  = 0.30
)

// missionBonusWeight scales the mission keyword coverage added to goal
// alignment.
const missionBonusWeight = 0.2

// MatchCandidate is the scored result for a single candidate. All component
// values are in [0, 1]; handlers scale to the 0-100 wire representation.
type MatchCandidate struct {
	AgentID string   `json:"agent_id"`
	Overall float64  `json:"overall"`
	Skill   float64  `json:"skill"`
	Style   float64  `json:"style"`
	Goal    float64  `json:"goal"`
	Reasons []string `json:"reasons"`
}

// Score computes the compatibility of a candidate for a requester, optionally
// biased toward a stated mission. Scoring an agent against itself yields a
// perfect score.
func Score(requester, candidate *agents.Agent, mission string) MatchCandidate {
	if requester.AgentID == candidate.AgentID {
		return MatchCandidate{
			AgentID: candidate.AgentID,
			Overall: 1, Skill: 1, Style: 1, Goal: 1,
			Reasons: []string{"self match"},
		}
	}

	var reasons []string

	skill, shared := skillScore(requester.Skills, candidate.Skills)
	if len(shared) > 0 {
		reasons = append(reasons, "shared skills: "+strings.Join(shared, ", "))
	}

	style := styleScore(requester.Style, candidate.Style)
	if style >= 0.8 {
		reasons = append(reasons, "closely aligned collaboration style")
	}

	goal, matched, total := goalScore(requester.Seeking, candidate, mission)
	if matched > 0 {
		reasons = append(reasons, fmt.Sprintf("mission keywords matched: %d/%d", matched, total))
	}

	overall := weightSkill*skill + weightStyle*style + weightGoal*goal

	return MatchCandidate{
		AgentID: candidate.AgentID,
		Overall: overall,
		Skill:   skill,
		Style:   style,
		Goal:    goal,
		Reasons: reasons,
	}
}

// Rank sorts candidates by overall score descending, breaking ties by
// agent id ascending so rankings are deterministic.
func Rank(candidates []MatchCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Overall != candidates[j].Overall {
			return candidates[i].Overall > candidates[j].Overall
		}
		return candidates[i].AgentID < candidates[j].AgentID
	})
}

// skillScore is the Jaccard index over the two skill sets. An agent with no
// declared skills scores zero rather than undefined.
func skillScore(a, b []string) (float64, []string) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}

	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}

	var shared []string
	union := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		union[s] = struct{}{}
	}
	for _, s := range b {
		union[s] = struct{}{}
		if _, ok := set[s]; ok {
			shared = append(shared, s)
		}
	}

	sort.Strings(shared)
	return float64(len(shared)) / float64(len(union)), shared
}

// styleScore maps the euclidean distance between style sliders (scaled to
// [0, 1] per axis) onto a similarity in [0, 1].
func styleScore(a, b agents.Style) float64 {
	dt := float64(a.Terseness-b.Terseness) / 100
	dc := float64(a.Cautiousness-b.Cautiousness) / 100
	dr := float64(a.Creativity-b.Creativity) / 100

	dist := math.Sqrt(dt*dt + dc*dc + dr*dr)
	return 1 - dist/math.Sqrt(3)
}

// goalScore combines seeking-tag overlap with a bonus for mission keywords
// appearing in the candidate's tagline and bio, clamped to 1.
func goalScore(seeking []string, candidate *agents.Agent, mission string) (score float64, matched, total int) {
	base, _ := skillScore(seeking, candidate.Seeking)

	bonus := 0.0
	tokens := missionTokens(mission)
	if len(tokens) > 0 {
		haystack := strings.ToLower(candidate.Tagline + " " + candidate.Bio)
		for _, t := range tokens {
			if strings.Contains(haystack, t) {
				matched++
			}
		}
		total = len(tokens)
		bonus = missionBonusWeight * float64(matched) / float64(total)
	}

	return math.Min(1, base+bonus), matched, total
}

func missionTokens(mission string) []string {
	fields := strings.Fields(strings.ToLower(mission))

	var tokens []string
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
