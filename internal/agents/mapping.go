package agents

import (
	"net/url"
	"strings"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/query"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/repository"
	"github.com/lib/pq"
)

var projection = query.
	NewProjectionMap("public", "agents", "a").
	Project("id", "ID").
	Project("agent_id", "AgentID").
	Project("public_key", "PublicKey").
	Project("name", "Name").
	Project("handle", "Handle").
	Project("tagline", "Tagline").
	Project("bio", "Bio").
	Project("status", "Status").
	Project("verification_level", "VerificationLevel").
	Project("skills", "Skills").
	Project("seeking", "Seeking").
	Project("cap_browser", "CapBrowser").
	Project("cap_filesystem", "CapFilesystem").
	Project("cap_messaging", "CapMessaging").
	Project("cap_code_exec", "CapCodeExec").
	Project("style_terseness", "StyleTerseness").
	Project("style_cautiousness", "StyleCautiousness").
	Project("style_creativity", "StyleCreativity").
	Project("bound_no_external_actions", "BoundNoExternalActions").
	Project("bound_no_memory_sharing", "BoundNoMemorySharing").
	Project("bound_no_nsfw", "BoundNoNSFW").
	Project("bound_no_persuasion", "BoundNoPersuasion").
	Project("reputation_score", "ReputationScore").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const defaultSort = "Name"

func scanAgent(s repository.Scanner) (Agent, error) {
	var a Agent
	err := s.Scan(
		&a.ID,
		&a.AgentID,
		&a.PublicKey,
		&a.Name,
		&a.Handle,
		&a.Tagline,
		&a.Bio,
		&a.Status,
		&a.VerificationLevel,
		pq.Array(&a.Skills),
		pq.Array(&a.Seeking),
		&a.Capabilities.Browser,
		&a.Capabilities.Filesystem,
		&a.Capabilities.Messaging,
		&a.Capabilities.CodeExec,
		&a.Style.Terseness,
		&a.Style.Cautiousness,
		&a.Style.Creativity,
		&a.Boundaries.NoExternalActions,
		&a.Boundaries.NoMemorySharing,
		&a.Boundaries.NoNSFW,
		&a.Boundaries.NoPersuasion,
		&a.ReputationScore,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// Filters contains optional filtering criteria for agent queries.
type Filters struct {
	Status        *string  `json:"status,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	MinReputation *int     `json:"min_reputation,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var status *string
	if s := values.Get("status"); s != "" {
		status = &s
	}

	var skills []string
	if s := values.Get("skills"); s != "" {
		skills = NormalizeTags(strings.Split(s, ","))
	}

	return Filters{
		Status: status,
		Skills: skills,
	}
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Status != nil {
		b.WhereEquals("Status", *f.Status)
	}
	if len(f.Skills) > 0 {
		b.WhereArrayContains("Skills", f.Skills)
	}
	if f.MinReputation != nil {
		b.WhereGte("ReputationScore", *f.MinReputation)
	}
	return b
}
