package auth_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/auth"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/pagination"
	"github.com/google/uuid"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAgents is an in-memory agents.System sufficient for auth flows.
type stubAgents struct {
	mu    sync.Mutex
	byKey map[string]*agents.Agent
	byID  map[string]*agents.Agent
}

func newStubAgents() *stubAgents {
	return &stubAgents{
		byKey: make(map[string]*agents.Agent),
		byID:  make(map[string]*agents.Agent),
	}
}

func (s *stubAgents) add(a *agents.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[a.PublicKey] = a
	s.byID[a.AgentID] = a
}

func (s *stubAgents) Register(_ context.Context, _ agents.RegisterCommand) (*agents.Agent, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAgents) Find(_ context.Context, _ uuid.UUID) (*agents.Agent, error) {
	return nil, agents.ErrNotFound
}

func (s *stubAgents) FindByAgentID(_ context.Context, agentID string) (*agents.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[agentID]; ok {
		return a, nil
	}
	return nil, agents.ErrNotFound
}

func (s *stubAgents) FindByPublicKey(_ context.Context, publicKey string) (*agents.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byKey[publicKey]; ok {
		return a, nil
	}
	return nil, agents.ErrNotFound
}

func (s *stubAgents) List(_ context.Context, _ pagination.PageRequest, _ agents.Filters) (*pagination.PageResult[agents.Agent], error) {
	return nil, errors.New("not implemented")
}

func (s *stubAgents) UpdateProfile(_ context.Context, _ string, _ agents.UpdateProfileCommand) (*agents.Agent, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAgents) SetStatus(_ context.Context, agentID string, status agents.Status) (*agents.Agent, error) {
	a, err := s.FindByAgentID(context.Background(), agentID)
	if err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (s *stubAgents) AdjustReputation(_ context.Context, _ string, _ int) error {
	return nil
}

type fixture struct {
	pub      ed25519.PublicKey
	priv     ed25519.PrivateKey
	keyHex   string
	agent    *agents.Agent
	sys      *stubAgents
	store    *auth.MemoryChallengeStore
	issuer   *auth.Challenges
	verifier *auth.Verifier
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	keyHex := hex.EncodeToString(pub)
	agent := &agents.Agent{
		AgentID:   agents.DeriveAgentID(pub),
		PublicKey: keyHex,
		Status:    agents.StatusActive,
	}

	sys := newStubAgents()
	sys.add(agent)

	store := auth.NewMemoryChallengeStore(0)
	t.Cleanup(store.Close)

	return &fixture{
		pub:      pub,
		priv:     priv,
		keyHex:   keyHex,
		agent:    agent,
		sys:      sys,
		store:    store,
		issuer:   auth.NewChallenges(store, ttl, discard()),
		verifier: auth.NewVerifier(sys, store, discard()),
	}
}

func (f *fixture) sign(nonce string) string {
	sig := ed25519.Sign(f.priv, auth.CanonicalMessage(f.keyHex, nonce))
	return base64.StdEncoding.EncodeToString(sig)
}

func TestChallenges_Issue(t *testing.T) {
	f := newFixture(t, time.Minute)

	ch, err := f.issuer.Issue(context.Background(), f.keyHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	nonce, err := base64.RawURLEncoding.DecodeString(ch.Nonce)
	if err != nil {
		t.Fatalf("nonce is not base64url: %v", err)
	}
	if len(nonce) != 32 {
		t.Errorf("nonce length = %d bytes, want 32", len(nonce))
	}
	if !ch.ExpiresAt.After(time.Now()) {
		t.Error("challenge already expired at issue time")
	}
}

func TestChallenges_IssueRejectsMalformedKey(t *testing.T) {
	f := newFixture(t, time.Minute)

	if _, err := f.issuer.Issue(context.Background(), "not-a-key"); !errors.Is(err, auth.ErrInvalidKeyFormat) {
		t.Errorf("err = %v, want ErrInvalidKeyFormat", err)
	}
}

func TestChallenges_MultipleOutstanding(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	first, err := f.issuer.Issue(ctx, f.keyHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := f.issuer.Issue(ctx, f.keyHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if first.Nonce == second.Nonce {
		t.Fatal("expected distinct nonces")
	}

	// Issuing a second challenge must not invalidate the first.
	if _, err := f.verifier.Verify(ctx, f.keyHex, first.Nonce, f.sign(first.Nonce)); err != nil {
		t.Errorf("Verify(first) error = %v", err)
	}
	if _, err := f.verifier.Verify(ctx, f.keyHex, second.Nonce, f.sign(second.Nonce)); err != nil {
		t.Errorf("Verify(second) error = %v", err)
	}
}

func TestVerifier_Success(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	ch, err := f.issuer.Issue(ctx, f.keyHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	agent, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, f.sign(ch.Nonce))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if agent.AgentID != f.agent.AgentID {
		t.Errorf("agent id = %s, want %s", agent.AgentID, f.agent.AgentID)
	}
}

func TestVerifier_Replay(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	ch, _ := f.issuer.Issue(ctx, f.keyHex)
	sig := f.sign(ch.Nonce)

	if _, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, sig); err != nil {
		t.Fatalf("first Verify() error = %v", err)
	}

	if _, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, sig); !errors.Is(err, auth.ErrChallengeNotFound) {
		t.Errorf("second Verify() error = %v, want ErrChallengeNotFound", err)
	}
}

func TestVerifier_BadSignatureDoesNotConsume(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	ch, _ := f.issuer.Issue(ctx, f.keyHex)

	garbage := base64.StdEncoding.EncodeToString(make([]byte, ed25519.SignatureSize))
	if _, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, garbage); !errors.Is(err, auth.ErrSignatureInvalid) {
		t.Fatalf("Verify() error = %v, want ErrSignatureInvalid", err)
	}

	// A failed signature must not burn the nonce.
	if _, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, f.sign(ch.Nonce)); err != nil {
		t.Errorf("Verify() after bad signature error = %v", err)
	}
}

func TestVerifier_Expired(t *testing.T) {
	f := newFixture(t, -time.Second)
	ctx := context.Background()

	ch, _ := f.issuer.Issue(ctx, f.keyHex)

	if _, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, f.sign(ch.Nonce)); !errors.Is(err, auth.ErrChallengeExpired) {
		t.Errorf("Verify() error = %v, want ErrChallengeExpired", err)
	}
}

func TestVerifier_UnregisteredKey(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	strangerPub, strangerPriv, _ := ed25519.GenerateKey(rand.Reader)
	strangerHex := hex.EncodeToString(strangerPub)

	ch, err := f.issuer.Issue(ctx, strangerHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	sig := base64.StdEncoding.EncodeToString(
		ed25519.Sign(strangerPriv, auth.CanonicalMessage(strangerHex, ch.Nonce)))

	if _, err := f.verifier.Verify(ctx, strangerHex, ch.Nonce, sig); !errors.Is(err, auth.ErrKeyNotRegistered) {
		t.Errorf("Verify() error = %v, want ErrKeyNotRegistered", err)
	}
}

// failingAgents simulates a backing store outage on key lookup.
type failingAgents struct {
	*stubAgents
	err error
}

func (f *failingAgents) FindByPublicKey(_ context.Context, _ string) (*agents.Agent, error) {
	return nil, f.err
}

func TestVerifier_LookupFailureIsNotUnauthorized(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	ch, err := f.issuer.Issue(ctx, f.keyHex)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	dbErr := errors.New("connection refused")
	verifier := auth.NewVerifier(&failingAgents{stubAgents: f.sys, err: dbErr}, f.store, discard())

	_, err = verifier.Verify(ctx, f.keyHex, ch.Nonce, f.sign(ch.Nonce))
	if errors.Is(err, auth.ErrKeyNotRegistered) {
		t.Fatal("transient lookup failure reported as unregistered key")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want wrapped %v", err, dbErr)
	}
}

func TestVerifier_InvalidKeyFormat(t *testing.T) {
	f := newFixture(t, time.Minute)

	if _, err := f.verifier.Verify(context.Background(), "short", "nonce", "sig"); !errors.Is(err, auth.ErrInvalidKeyFormat) {
		t.Errorf("Verify() error = %v, want ErrInvalidKeyFormat", err)
	}
}

func TestVerifier_ConcurrentConsume(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	ch, _ := f.issuer.Issue(ctx, f.keyHex)
	sig := f.sign(ch.Nonce)

	const workers = 16

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.verifier.Verify(ctx, f.keyHex, ch.Nonce, sig)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, auth.ErrChallengeNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
}
