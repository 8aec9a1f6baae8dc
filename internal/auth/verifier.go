package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
)

// Verifier checks challenge signatures and consumes challenges on success.
// The signature is verified before the challenge is consumed so a garbage
// signature does not burn the nonce; consumption is what prevents replay.
type Verifier struct {
	agents agents.System
	store  ChallengeStore
	logger *slog.Logger
}

// NewVerifier creates a signature verifier.
func NewVerifier(sys agents.System, store ChallengeStore, logger *slog.Logger) *Verifier {
	return &Verifier{
		agents: sys,
		store:  store,
		logger: logger.With("system", "auth"),
	}
}

// Verify proves possession of the private key for a registered public key.
// Checks run in a fixed order so each failure mode reports its own error:
// key format, key registration, challenge existence and expiry, signature,
// then atomic consumption.
func (v *Verifier) Verify(ctx context.Context, publicKeyHex, nonce, signatureB64 string) (*agents.Agent, error) {
	key, err := parseKey(publicKeyHex)
	if err != nil {
		return nil, err
	}
	canonical := keyHex(key)

	agent, err := v.agents.FindByPublicKey(ctx, canonical)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return nil, ErrKeyNotRegistered
		}
		return nil, fmt.Errorf("lookup key: %w", err)
	}

	ch, err := v.store.Get(ctx, canonical, nonce)
	if err != nil {
		return nil, err
	}

	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		sig, err = base64.RawURLEncoding.DecodeString(signatureB64)
		if err != nil {
			return nil, fmt.Errorf("%w: signature not base64 encoded", ErrSignatureInvalid)
		}
	}

	if !ed25519.Verify(key, CanonicalMessage(canonical, ch.Nonce), sig) {
		return nil, ErrSignatureInvalid
	}

	if err := v.store.Consume(ctx, canonical, nonce); err != nil {
		return nil, err
	}

	v.logger.Info("signature verified", "agent_id", agent.AgentID)
	return agent, nil
}

func parseKey(publicKeyHex string) (ed25519.PublicKey, error) {
	key, err := agents.ParsePublicKey(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %d hex characters required", ErrInvalidKeyFormat, ed25519.PublicKeySize*2)
	}
	return key, nil
}

func keyHex(key ed25519.PublicKey) string {
	return hex.EncodeToString(key)
}
