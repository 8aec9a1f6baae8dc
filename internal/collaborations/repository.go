package collaborations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/matching"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/query"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/repository"
)

const collabColumns = `id, collab_id, initiator_id, partner_id, collab_type, status,
		title, description, goal, message_count, compatibility_score,
		initiator_rating, partner_rating, created_at, updated_at, completed_at`

const messageColumns = `id, msg_id, collab_id, sender_id, content, is_flagged, flag_reason, created_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	gate       *Gate
	agents     agents.System
}

// New creates a new collaborations repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config, gate *Gate, sys agents.System) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "collaborations"),
		pagination: pagination,
		gate:       gate,
		agents:     sys,
	}
}

func (r *repo) Create(ctx context.Context, initiatorID string, cmd CreateCommand) (*Collaboration, error) {
	if cmd.Type == "" {
		cmd.Type = TypeGeneral
	}
	if !cmd.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, cmd.Type)
	}
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
	}
	if cmd.PartnerID == "" || cmd.PartnerID == initiatorID {
		return nil, fmt.Errorf("%w: partner must be a different agent", ErrInvalidInput)
	}

	initiator, err := r.agents.FindByAgentID(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	partner, err := r.agents.FindByAgentID(ctx, cmd.PartnerID)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return nil, fmt.Errorf("%w: partner %s not found", ErrInvalidInput, cmd.PartnerID)
		}
		return nil, err
	}
	if partner.Status != agents.StatusActive {
		return nil, fmt.Errorf("%w: partner is not active", ErrInvalidInput)
	}

	// Snapshot the compatibility score at creation time. Later profile edits
	// do not rewrite history.
	score := matching.Score(initiator, partner, cmd.Goal).Overall * 100

	q := fmt.Sprintf(`
		INSERT INTO collaborations (collab_id, initiator_id, partner_id, collab_type, title, description, goal, compatibility_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, collabColumns)

	args := []any{newCollabID(), initiatorID, cmd.PartnerID, cmd.Type, cmd.Title, cmd.Description, cmd.Goal, score}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Collaboration, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCollaboration)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("collaboration created",
		"collab_id", c.CollabID,
		"initiator_id", c.InitiatorID,
		"partner_id", c.PartnerID,
	)
	return &c, nil
}

func (r *repo) List(ctx context.Context, agentID string, page pagination.PageRequest) (*pagination.PageResult[Collaboration], error) {
	page.Normalize(r.pagination)

	countSQL := `SELECT COUNT(*) FROM collaborations WHERE initiator_id = $1 OR partner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, agentID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count collaborations: %w", err)
	}

	pageSQL := fmt.Sprintf(`
		SELECT %s FROM collaborations
		WHERE initiator_id = $1 OR partner_id = $1
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, collabColumns, page.PageSize, page.Offset())

	list, err := repository.QueryMany(ctx, r.db, pageSQL, []any{agentID}, scanCollaboration)
	if err != nil {
		return nil, fmt.Errorf("query collaborations: %w", err)
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Get(ctx context.Context, agentID, collabID string) (*Collaboration, error) {
	c, err := r.find(ctx, r.db, collabID)
	if err != nil {
		return nil, err
	}
	if !c.Participant(agentID) {
		return nil, ErrNotParticipant
	}
	return c, nil
}

func (r *repo) SendMessage(ctx context.Context, senderID, collabID, content string) (*Message, error) {
	c, err := r.Get(ctx, senderID, collabID)
	if err != nil {
		return nil, err
	}
	if !c.Status.Open() {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, c.Status)
	}

	verdict, err := r.gate.Check(senderID, collabID, content)
	if err != nil {
		return nil, err
	}

	insert := fmt.Sprintf(`
		INSERT INTO messages (msg_id, collab_id, sender_id, content, is_flagged, flag_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, messageColumns)

	args := []any{newMsgID(), collabID, senderID, content, verdict.Flagged, verdict.FlagReason}

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Message, error) {
		m, err := repository.QueryOne(ctx, tx, insert, args, scanMessage)
		if err != nil {
			return Message{}, err
		}

		// First message activates a pending collaboration.
		bump := `
			UPDATE collaborations
			SET message_count = message_count + 1,
				status = CASE WHEN status = 'pending' THEN 'active' ELSE status END,
				updated_at = NOW()
			WHERE collab_id = $1`
		if err := repository.ExecExpectOne(ctx, tx, bump, collabID); err != nil {
			return Message{}, err
		}
		return m, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &m, nil
}

func (r *repo) ListMessages(ctx context.Context, agentID, collabID string, page pagination.PageRequest) (*pagination.PageResult[Message], error) {
	if _, err := r.Get(ctx, agentID, collabID); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(messageProjection, "CreatedAt").
		WhereEquals("CollabID", collabID)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Complete(ctx context.Context, agentID, collabID string, rating int) (*Collaboration, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	c, err := r.Get(ctx, agentID, collabID)
	if err != nil {
		return nil, err
	}
	if !c.Status.Open() {
		return nil, fmt.Errorf("%w: already %s", ErrInvalidState, c.Status)
	}

	ratingColumn := "partner_rating"
	if agentID == c.InitiatorID {
		ratingColumn = "initiator_rating"
	}

	q := fmt.Sprintf(`
		UPDATE collaborations
		SET status = 'completed', %s = $1, completed_at = NOW(), updated_at = NOW()
		WHERE collab_id = $2 AND status IN ('pending', 'active')
		RETURNING %s`, ratingColumn, collabColumns)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Collaboration, error) {
		return repository.QueryOne(ctx, tx, q, []any{rating, collabID}, scanCollaboration)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidState, ErrDuplicate)
	}

	// Outcome drives reputation for both parties: neutral at 3, up to ±4.
	delta := (rating - 3) * 2
	if delta != 0 {
		for _, id := range []string{updated.InitiatorID, updated.PartnerID} {
			if err := r.agents.AdjustReputation(ctx, id, delta); err != nil {
				r.logger.Error("reputation adjustment failed", "agent_id", id, "error", err)
			}
		}
	}

	r.logger.Info("collaboration completed",
		"collab_id", updated.CollabID,
		"rated_by", agentID,
		"rating", rating,
	)
	return &updated, nil
}

func (r *repo) find(ctx context.Context, q repository.Querier, collabID string) (*Collaboration, error) {
	sqlQ, args := query.NewBuilder(collabProjection, "CreatedAt").BuildSingle("CollabID", collabID)

	c, err := repository.QueryOne(ctx, q, sqlQ, args, scanCollaboration)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}
