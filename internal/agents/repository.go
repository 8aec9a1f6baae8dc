package agents

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/query"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const agentColumns = `id, agent_id, public_key, name, handle, tagline, bio,
		status, verification_level, skills, seeking,
		cap_browser, cap_filesystem, cap_messaging, cap_code_exec,
		style_terseness, style_cautiousness, style_creativity,
		bound_no_external_actions, bound_no_memory_sharing, bound_no_nsfw, bound_no_persuasion,
		reputation_score, created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a new agents repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "agents"),
		pagination: pagination,
	}
}

// DeriveAgentID computes the stable public identifier for a public key:
// the first 16 hex characters of SHA-256 over the raw key bytes.
func DeriveAgentID(key ed25519.PublicKey) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])[:16]
}

// ParsePublicKey decodes a hex-encoded Ed25519 public key, rejecting
// anything that is not exactly 32 bytes.
func ParsePublicKey(publicKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(publicKey))
	if err != nil {
		return nil, fmt.Errorf("%w: not hex encoded", ErrInvalidKey)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Agent, error) {
	key, err := ParsePublicKey(cmd.PublicKey)
	if err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !validStyle(cmd.Style) {
		return nil, fmt.Errorf("%w: style sliders must be within [0, 100]", ErrInvalidInput)
	}

	agentID := DeriveAgentID(key)
	skills := NormalizeTags(cmd.Skills)
	seeking := NormalizeTags(cmd.Seeking)

	q := fmt.Sprintf(`
		INSERT INTO agents (
			agent_id, public_key, name, handle, tagline, bio, skills, seeking,
			cap_browser, cap_filesystem, cap_messaging, cap_code_exec,
			style_terseness, style_cautiousness, style_creativity,
			bound_no_external_actions, bound_no_memory_sharing, bound_no_nsfw, bound_no_persuasion
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING %s`, agentColumns)

	args := []any{
		agentID, hex.EncodeToString(key), cmd.Name, cmd.Handle, cmd.Tagline, cmd.Bio,
		pq.Array(skills), pq.Array(seeking),
		cmd.Capabilities.Browser, cmd.Capabilities.Filesystem, cmd.Capabilities.Messaging, cmd.Capabilities.CodeExec,
		cmd.Style.Terseness, cmd.Style.Cautiousness, cmd.Style.Creativity,
		cmd.Boundaries.NoExternalActions, cmd.Boundaries.NoMemorySharing, cmd.Boundaries.NoNSFW, cmd.Boundaries.NoPersuasion,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAgent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}

	r.logger.Info("agent registered", "agent_id", a.AgentID, "name", a.Name)
	return &a, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Agent, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}
	return &a, nil
}

func (r *repo) FindByAgentID(ctx context.Context, agentID string) (*Agent, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("AgentID", agentID)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}
	return &a, nil
}

func (r *repo) FindByPublicKey(ctx context.Context, publicKey string) (*Agent, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("PublicKey", strings.ToLower(strings.TrimSpace(publicKey)))

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}
	return &a, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Handle")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) UpdateProfile(ctx context.Context, agentID string, cmd UpdateProfileCommand) (*Agent, error) {
	if cmd.Style != nil && !validStyle(*cmd.Style) {
		return nil, fmt.Errorf("%w: style sliders must be within [0, 100]", ErrInvalidInput)
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		current, err := repository.QueryOne(ctx, tx,
			fmt.Sprintf("SELECT %s FROM agents WHERE agent_id = $1 FOR UPDATE", agentColumns),
			[]any{agentID}, scanAgent)
		if err != nil {
			return Agent{}, err
		}

		applyPatch(&current, cmd)

		q := fmt.Sprintf(`
			UPDATE agents SET
				name = $1, handle = $2, tagline = $3, bio = $4, skills = $5, seeking = $6,
				cap_browser = $7, cap_filesystem = $8, cap_messaging = $9, cap_code_exec = $10,
				style_terseness = $11, style_cautiousness = $12, style_creativity = $13,
				bound_no_external_actions = $14, bound_no_memory_sharing = $15,
				bound_no_nsfw = $16, bound_no_persuasion = $17,
				updated_at = NOW()
			WHERE agent_id = $18
			RETURNING %s`, agentColumns)

		args := []any{
			current.Name, current.Handle, current.Tagline, current.Bio,
			pq.Array(current.Skills), pq.Array(current.Seeking),
			current.Capabilities.Browser, current.Capabilities.Filesystem,
			current.Capabilities.Messaging, current.Capabilities.CodeExec,
			current.Style.Terseness, current.Style.Cautiousness, current.Style.Creativity,
			current.Boundaries.NoExternalActions, current.Boundaries.NoMemorySharing,
			current.Boundaries.NoNSFW, current.Boundaries.NoPersuasion,
			agentID,
		}

		return repository.QueryOne(ctx, tx, q, args, scanAgent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}

	r.logger.Info("profile updated", "agent_id", a.AgentID)
	return &a, nil
}

func (r *repo) SetStatus(ctx context.Context, agentID string, status Status) (*Agent, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	q := fmt.Sprintf(`
		UPDATE agents
		SET status = $1, updated_at = NOW()
		WHERE agent_id = $2
		RETURNING %s`, agentColumns)

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Agent, error) {
		return repository.QueryOne(ctx, tx, q, []any{status, agentID}, scanAgent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}

	r.logger.Info("agent status changed", "agent_id", a.AgentID, "status", a.Status)
	return &a, nil
}

func (r *repo) AdjustReputation(ctx context.Context, agentID string, delta int) error {
	q := `
		UPDATE agents
		SET reputation_score = LEAST(100, GREATEST(0, reputation_score + $1)),
			updated_at = NOW()
		WHERE agent_id = $2`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, q, delta, agentID)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicateKey)
	}

	r.logger.Info("reputation adjusted", "agent_id", agentID, "delta", delta)
	return nil
}

func applyPatch(a *Agent, cmd UpdateProfileCommand) {
	if cmd.Name != nil {
		a.Name = *cmd.Name
	}
	if cmd.Handle != nil {
		a.Handle = *cmd.Handle
	}
	if cmd.Tagline != nil {
		a.Tagline = *cmd.Tagline
	}
	if cmd.Bio != nil {
		a.Bio = *cmd.Bio
	}
	if cmd.Skills != nil {
		a.Skills = NormalizeTags(cmd.Skills)
	}
	if cmd.Seeking != nil {
		a.Seeking = NormalizeTags(cmd.Seeking)
	}
	if cmd.Capabilities != nil {
		a.Capabilities = *cmd.Capabilities
	}
	if cmd.Style != nil {
		a.Style = *cmd.Style
	}
	if cmd.Boundaries != nil {
		a.Boundaries = *cmd.Boundaries
	}
}
