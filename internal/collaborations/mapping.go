package collaborations

import (
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/query"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/repository"
)

var collabProjection = query.
	NewProjectionMap("public", "collaborations", "c").
	Project("id", "ID").
	Project("collab_id", "CollabID").
	Project("initiator_id", "InitiatorID").
	Project("partner_id", "PartnerID").
	Project("collab_type", "Type").
	Project("status", "Status").
	Project("title", "Title").
	Project("description", "Description").
	Project("goal", "Goal").
	Project("message_count", "MessageCount").
	Project("compatibility_score", "CompatibilityScore").
	Project("initiator_rating", "InitiatorRating").
	Project("partner_rating", "PartnerRating").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var messageProjection = query.
	NewProjectionMap("public", "messages", "m").
	Project("id", "ID").
	Project("msg_id", "MsgID").
	Project("collab_id", "CollabID").
	Project("sender_id", "SenderID").
	Project("content", "Content").
	Project("is_flagged", "IsFlagged").
	Project("flag_reason", "FlagReason").
	Project("created_at", "CreatedAt")

func scanCollaboration(s repository.Scanner) (Collaboration, error) {
	var c Collaboration
	err := s.Scan(
		&c.ID,
		&c.CollabID,
		&c.InitiatorID,
		&c.PartnerID,
		&c.Type,
		&c.Status,
		&c.Title,
		&c.Description,
		&c.Goal,
		&c.MessageCount,
		&c.CompatibilityScore,
		&c.InitiatorRating,
		&c.PartnerRating,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CompletedAt,
	)
	return c, err
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.MsgID,
		&m.CollabID,
		&m.SenderID,
		&m.Content,
		&m.IsFlagged,
		&m.FlagReason,
		&m.CreatedAt,
	)
	return m, err
}
