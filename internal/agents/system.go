package agents

import (
	"context"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the interface for agent storage and retrieval operations.
type System interface {
	Register(ctx context.Context, cmd RegisterCommand) (*Agent, error)
	Find(ctx context.Context, id uuid.UUID) (*Agent, error)
	FindByAgentID(ctx context.Context, agentID string) (*Agent, error)
	FindByPublicKey(ctx context.Context, publicKey string) (*Agent, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Agent], error)
	UpdateProfile(ctx context.Context, agentID string, cmd UpdateProfileCommand) (*Agent, error)
	SetStatus(ctx context.Context, agentID string, status Status) (*Agent, error)
	AdjustReputation(ctx context.Context, agentID string, delta int) error
}
