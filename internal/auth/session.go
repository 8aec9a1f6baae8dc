package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// maxSessionTTL caps session lifetime regardless of configuration.
const maxSessionTTL = 7 * 24 * time.Hour

// Sessions issues and validates bearer session tokens. Tokens are stateless
// HS256 JWTs; every validation failure collapses into ErrSessionInvalid.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	grace  time.Duration
	agents agents.System
	logger *slog.Logger
}

// NewSessions creates a session issuer signing with the given secret. The
// grace window lets an expired token still be exchanged via Refresh.
func NewSessions(secret []byte, ttl, grace time.Duration, sys agents.System, logger *slog.Logger) *Sessions {
	if ttl <= 0 || ttl > maxSessionTTL {
		ttl = maxSessionTTL
	}
	if grace < 0 {
		grace = 0
	}
	return &Sessions{
		secret: secret,
		ttl:    ttl,
		grace:  grace,
		agents: sys,
		logger: logger.With("system", "auth"),
	}
}

// Create issues a fresh session token for the given agent.
func (s *Sessions) Create(agent *agents.Agent) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   agent.AgentID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses and checks a session token, returning the agent id it was
// issued to. Expired, tampered, and malformed tokens all produce
// ErrSessionInvalid.
func (s *Sessions) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrSessionInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrSessionInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrSessionInvalid
	}
	return claims.Subject, nil
}

// Refresh re-checks the agent's standing and issues a fresh token. The token
// may be expired by up to the grace window; its signature must still hold.
// Suspended and banned agents cannot refresh.
func (s *Sessions) Refresh(ctx context.Context, tokenString string) (string, *agents.Agent, error) {
	agentID, err := s.validateForRefresh(tokenString)
	if err != nil {
		return "", nil, err
	}

	agent, err := s.agents.FindByAgentID(ctx, agentID)
	if err != nil {
		return "", nil, ErrSessionInvalid
	}
	if !agent.Usable() {
		return "", nil, ErrAgentUnavailable
	}

	token, err := s.Create(agent)
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug("session refreshed", "agent_id", agent.AgentID)
	return token, agent, nil
}

// validateForRefresh accepts tokens expired within the grace window. The
// signature check is identical to Validate; only the expiry rule relaxes.
func (s *Sessions) validateForRefresh(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrSessionInvalid
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return "", ErrSessionInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrSessionInvalid
	}
	if time.Now().After(claims.ExpiresAt.Add(s.grace)) {
		return "", ErrSessionInvalid
	}
	return claims.Subject, nil
}

// TTL returns the effective session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}
