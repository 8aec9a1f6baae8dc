package matching_test

import (
	"math"
	"testing"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/matching"
)

func agent(id string, skills, seeking []string, style agents.Style) *agents.Agent {
	return &agents.Agent{
		AgentID: id,
		Skills:  skills,
		Seeking: seeking,
		Style:   style,
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_SkillOverlap(t *testing.T) {
	requester := agent("a1", []string{"python", "research"}, nil, agents.Style{Terseness: 50, Cautiousness: 50, Creativity: 50})
	candidate := agent("b2", []string{"python", "writing"}, nil, agents.Style{Terseness: 60, Cautiousness: 40, Creativity: 70})

	result := matching.Score(requester, candidate, "")

	// One shared skill out of three distinct ones.
	if !near(result.Skill, 1.0/3.0) {
		t.Errorf("Skill = %f, want %f", result.Skill, 1.0/3.0)
	}
	if result.Skill < 0 || result.Skill > 1 {
		t.Errorf("Skill = %f, want value in [0, 1]", result.Skill)
	}
}

func TestScore_Self(t *testing.T) {
	a := agent("a1", []string{"python"}, []string{"research"}, agents.Style{Terseness: 10, Cautiousness: 20, Creativity: 30})

	result := matching.Score(a, a, "anything")

	if result.Overall != 1 || result.Skill != 1 || result.Style != 1 || result.Goal != 1 {
		t.Errorf("self score = %+v, want all components 1", result)
	}
}

func TestScore_NoSkills(t *testing.T) {
	tests := []struct {
		name      string
		requester []string
		candidate []string
	}{
		{name: "requester empty", requester: nil, candidate: []string{"go"}},
		{name: "candidate empty", requester: []string{"go"}, candidate: nil},
		{name: "both empty", requester: nil, candidate: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := agent("a1", tt.requester, nil, agents.Style{})
			c := agent("b2", tt.candidate, nil, agents.Style{})

			if got := matching.Score(r, c, "").Skill; got != 0 {
				t.Errorf("Skill = %f, want 0", got)
			}
		})
	}
}

func TestScore_StyleAlignment(t *testing.T) {
	identical := agents.Style{Terseness: 42, Cautiousness: 77, Creativity: 13}

	r := agent("a1", nil, nil, identical)
	c := agent("b2", nil, nil, identical)

	if got := matching.Score(r, c, "").Style; !near(got, 1) {
		t.Errorf("Style = %f, want 1 for identical sliders", got)
	}

	opposite := agent("b2", nil, nil, agents.Style{Terseness: 100, Cautiousness: 100, Creativity: 100})
	zero := agent("a1", nil, nil, agents.Style{})

	if got := matching.Score(zero, opposite, "").Style; !near(got, 0) {
		t.Errorf("Style = %f, want 0 for maximally distant sliders", got)
	}
}

func TestScore_MissionBonus(t *testing.T) {
	r := agent("a1", nil, []string{"research"}, agents.Style{})

	// Partial seeking overlap keeps the base goal score below 1 so the
	// mission bonus is visible.
	c := agent("b2", nil, []string{"research", "writing"}, agents.Style{})
	c.Tagline = "Deep research and source synthesis"
	c.Bio = "Citation tracking for dense papers."

	withMission := matching.Score(r, c, "research citation work")
	withoutMission := matching.Score(r, c, "")

	if withMission.Goal <= withoutMission.Goal {
		t.Errorf("Goal with mission = %f, want greater than %f", withMission.Goal, withoutMission.Goal)
	}
	if withMission.Goal > 1 {
		t.Errorf("Goal = %f, want clamped to 1", withMission.Goal)
	}
}

func TestScore_Weights(t *testing.T) {
	r := agent("a1", []string{"go"}, []string{"debate"}, agents.Style{Terseness: 50, Cautiousness: 50, Creativity: 50})
	c := agent("b2", []string{"go"}, []string{"debate"}, agents.Style{Terseness: 50, Cautiousness: 50, Creativity: 50})

	result := matching.Score(r, c, "")

	want := 0.40*result.Skill + 0.30*result.Style + 0.30*result.Goal
	if !near(result.Overall, want) {
		t.Errorf("Overall = %f, want %f", result.Overall, want)
	}
}

func TestRank(t *testing.T) {
	candidates := []matching.MatchCandidate{
		{AgentID: "c3", Overall: 0.5},
		{AgentID: "a1", Overall: 0.9},
		{AgentID: "b2", Overall: 0.5},
	}

	matching.Rank(candidates)

	wantOrder := []string{"a1", "b2", "c3"}
	for i, want := range wantOrder {
		if candidates[i].AgentID != want {
			t.Errorf("position %d = %s, want %s", i, candidates[i].AgentID, want)
		}
	}
}
