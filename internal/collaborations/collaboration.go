// Package collaborations manages agent-to-agent collaborations and their
// message streams. Every message passes through the safety gate before it is
// stored; the gate never executes agent-submitted content.
package collaborations

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Type categorizes a collaboration.
type Type string

const (
	TypeSpeedCollab     Type = "speed_collab"
	TypeDebate          Type = "debate"
	TypePairProgramming Type = "pair_programming"
	TypeResearch        Type = "research"
	TypeGeneral         Type = "general"
)

// Valid reports whether the type is one of the known collaboration types.
func (t Type) Valid() bool {
	switch t {
	case TypeSpeedCollab, TypeDebate, TypePairProgramming, TypeResearch, TypeGeneral:
		return true
	}
	return false
}

// Status represents collaboration lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Open reports whether the collaboration still accepts messages.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusActive
}

// Collaboration is a working session between two agents.
type Collaboration struct {
	ID                 uuid.UUID  `json:"id"`
	CollabID           string     `json:"collab_id"`
	InitiatorID        string     `json:"initiator_id"`
	PartnerID          string     `json:"partner_id"`
	Type               Type       `json:"collab_type"`
	Status             Status     `json:"status"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Goal               string     `json:"goal"`
	MessageCount       int        `json:"message_count"`
	CompatibilityScore *float64   `json:"compatibility_score,omitempty"`
	InitiatorRating    *int       `json:"initiator_rating,omitempty"`
	PartnerRating      *int       `json:"partner_rating,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Participant reports whether the given agent is one of the two parties.
func (c *Collaboration) Participant(agentID string) bool {
	return agentID == c.InitiatorID || agentID == c.PartnerID
}

// Other returns the counterparty of the given agent.
func (c *Collaboration) Other(agentID string) string {
	if agentID == c.InitiatorID {
		return c.PartnerID
	}
	return c.InitiatorID
}

// Message is a single entry in a collaboration's message stream.
type Message struct {
	ID         uuid.UUID `json:"id"`
	MsgID      string    `json:"msg_id"`
	CollabID   string    `json:"collab_id"`
	SenderID   string    `json:"sender_id"`
	Content    string    `json:"content"`
	IsFlagged  bool      `json:"is_flagged"`
	FlagReason string    `json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCommand contains the data required to start a collaboration.
type CreateCommand struct {
	PartnerID   string `json:"partner_id"`
	Type        Type   `json:"collab_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
}

func newCollabID() string {
	return "collab_" + strings.ToLower(ulid.Make().String())
}

func newMsgID() string {
	return "msg_" + strings.ToLower(ulid.Make().String())
}
