// Package auth implements the challenge-response authentication flow:
// single-use signed challenges proving Ed25519 private-key possession, and
// the bearer sessions issued on success.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"
)

const nonceSize = 32

// Challenge is a single-use random value an agent must sign to prove
// possession of the private key matching its registered public key.
type Challenge struct {
	PublicKey string    `json:"public_key"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"-"`
}

// Expired reports whether the challenge is past its deadline.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CanonicalMessage builds the exact byte sequence a client must sign for a
// challenge. Both sides reconstruct it independently; it is never sent over
// the wire.
func CanonicalMessage(publicKeyHex, nonce string) []byte {
	return []byte("agentnexus:v1:" + publicKeyHex + ":" + nonce)
}

// Challenges issues authentication challenges and owns their lifetime.
// Multiple outstanding challenges per key are allowed; each is consumable
// exactly once.
type Challenges struct {
	store  ChallengeStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewChallenges creates a challenge issuer backed by the given store.
func NewChallenges(store ChallengeStore, ttl time.Duration, logger *slog.Logger) *Challenges {
	return &Challenges{
		store:  store,
		ttl:    ttl,
		logger: logger.With("system", "auth"),
	}
}

// Issue creates and stores a fresh challenge for the given hex-encoded
// public key. The key only needs to be well-formed: issuing does not reveal
// whether the key is registered.
func (c *Challenges) Issue(ctx context.Context, publicKeyHex string) (*Challenge, error) {
	key, err := parseKey(publicKeyHex)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, nonceSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ch := Challenge{
		PublicKey: keyHex(key),
		Nonce:     base64.RawURLEncoding.EncodeToString(buf),
		ExpiresAt: time.Now().Add(c.ttl),
	}

	if err := c.store.Put(ctx, ch); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}

	c.logger.Debug("challenge issued", "public_key", ch.PublicKey)
	return &ch, nil
}

// TTL returns the configured challenge lifetime.
func (c *Challenges) TTL() time.Duration {
	return c.ttl
}
