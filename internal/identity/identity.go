// Package identity carries the authenticated agent identity through the
// request context. It holds only the stable agent id so domain packages can
// share it without depending on one another.
package identity

import "context"

type contextKey struct{}

// With returns a context carrying the authenticated agent id.
func With(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, contextKey{}, agentID)
}

// AgentID extracts the authenticated agent id from the context.
func AgentID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok
}
