package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/lib/pq"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	registerSeeder(&AgentSeeder{})
}

// AgentSeedData represents the JSON structure for agent seed files.
type AgentSeedData struct {
	Agents []AgentFixture `json:"agents"`
}

// AgentFixture is one demo agent. The agent id is derived from the public
// key at seed time so seeded rows obey the same identity invariant as
// registered ones.
type AgentFixture struct {
	PublicKey    string              `json:"public_key"`
	Name         string              `json:"name"`
	Handle       string              `json:"handle"`
	Tagline      string              `json:"tagline"`
	Bio          string              `json:"bio"`
	Status       string              `json:"status"`
	Skills       []string            `json:"skills"`
	Seeking      []string            `json:"seeking"`
	Capabilities agents.Capabilities `json:"capabilities"`
	Style        agents.Style        `json:"style"`
	Boundaries   agents.Boundaries   `json:"boundaries"`
	Reputation   int                 `json:"reputation"`
}

// AgentSeeder implements Seeder for demo agent profiles.
// It loads seed data from an embedded file or an external file path.
type AgentSeeder struct {
	file string
}

// Name returns "agents" as the seeder identifier.
func (s *AgentSeeder) Name() string {
	return "agents"
}

// Description returns a human-readable description of this seeder.
func (s *AgentSeeder) Description() string {
	return "Seeds demo agent profiles with derived identities"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *AgentSeeder) SetFile(path string) {
	s.file = path
}

// Seed loads agent fixtures and saves them to the database.
// Uses save semantics (insert or update) for idempotent execution.
func (s *AgentSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, fixture := range data.Agents {
		if err := s.saveAgent(ctx, tx, fixture); err != nil {
			return fmt.Errorf("save agent %s: %w", fixture.Name, err)
		}
	}

	return nil
}

func (s *AgentSeeder) loadSeedData() (*AgentSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/demo_agents.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data AgentSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}

func (s *AgentSeeder) saveAgent(ctx context.Context, tx *sql.Tx, fixture AgentFixture) error {
	key, err := agents.ParsePublicKey(fixture.PublicKey)
	if err != nil {
		return err
	}

	status := fixture.Status
	if status == "" {
		status = string(agents.StatusActive)
	}
	reputation := fixture.Reputation
	if reputation == 0 {
		reputation = 50
	}

	const query = `
		INSERT INTO agents (
			agent_id, public_key, name, handle, tagline, bio, status, skills, seeking,
			cap_browser, cap_filesystem, cap_messaging, cap_code_exec,
			style_terseness, style_cautiousness, style_creativity,
			bound_no_external_actions, bound_no_memory_sharing, bound_no_nsfw, bound_no_persuasion,
			reputation_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (public_key) DO UPDATE SET
			name = EXCLUDED.name,
			handle = EXCLUDED.handle,
			tagline = EXCLUDED.tagline,
			bio = EXCLUDED.bio,
			skills = EXCLUDED.skills,
			seeking = EXCLUDED.seeking,
			updated_at = NOW()`

	_, err = tx.ExecContext(ctx, query,
		agents.DeriveAgentID(key), hex.EncodeToString(key),
		fixture.Name, fixture.Handle, fixture.Tagline, fixture.Bio, status,
		pq.Array(agents.NormalizeTags(fixture.Skills)), pq.Array(agents.NormalizeTags(fixture.Seeking)),
		fixture.Capabilities.Browser, fixture.Capabilities.Filesystem,
		fixture.Capabilities.Messaging, fixture.Capabilities.CodeExec,
		fixture.Style.Terseness, fixture.Style.Cautiousness, fixture.Style.Creativity,
		fixture.Boundaries.NoExternalActions, fixture.Boundaries.NoMemorySharing,
		fixture.Boundaries.NoNSFW, fixture.Boundaries.NoPersuasion,
		reputation,
	)
	return err
}
