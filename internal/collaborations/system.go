package collaborations

import (
	"context"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
)

// System defines the interface for collaboration storage and messaging.
type System interface {
	Create(ctx context.Context, initiatorID string, cmd CreateCommand) (*Collaboration, error)
	List(ctx context.Context, agentID string, page pagination.PageRequest) (*pagination.PageResult[Collaboration], error)
	Get(ctx context.Context, agentID, collabID string) (*Collaboration, error)
	SendMessage(ctx context.Context, senderID, collabID, content string) (*Message, error)
	ListMessages(ctx context.Context, agentID, collabID string, page pagination.PageRequest) (*pagination.PageResult[Message], error)
	Complete(ctx context.Context, agentID, collabID string, rating int) (*Collaboration, error)
}
