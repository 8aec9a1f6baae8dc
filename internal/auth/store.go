package auth

import (
	"context"
	"sync"
	"time"
)

// ChallengeStore persists issued challenges. Consume is the replay-protection
// linearization point: implementations must guarantee that for any
// (public_key, nonce) pair exactly one Consume call succeeds.
type ChallengeStore interface {
	Put(ctx context.Context, ch Challenge) error
	Get(ctx context.Context, publicKey, nonce string) (*Challenge, error)
	Consume(ctx context.Context, publicKey, nonce string) error
}

type memoryKey struct {
	publicKey string
	nonce     string
}

// MemoryChallengeStore is an in-process ChallengeStore used by tests and
// single-node development. A mutex serializes Consume so concurrent callers
// race safely.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[memoryKey]*Challenge
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryChallengeStore creates an in-memory challenge store. The sweep
// interval controls how often expired rows are purged; zero disables the
// sweeper.
func NewMemoryChallengeStore(sweep time.Duration) *MemoryChallengeStore {
	s := &MemoryChallengeStore{
		challenges: make(map[memoryKey]*Challenge),
		done:       make(chan struct{}),
	}
	if sweep > 0 {
		go s.run(sweep)
	}
	return s
}

func (s *MemoryChallengeStore) Put(_ context.Context, ch Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[memoryKey{ch.PublicKey, ch.Nonce}] = &ch
	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, publicKey, nonce string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[memoryKey{publicKey, nonce}]
	if !ok || ch.Consumed {
		return nil, ErrChallengeNotFound
	}
	if ch.Expired(time.Now()) {
		return nil, ErrChallengeExpired
	}

	copied := *ch
	return &copied, nil
}

func (s *MemoryChallengeStore) Consume(_ context.Context, publicKey, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[memoryKey{publicKey, nonce}]
	if !ok || ch.Consumed {
		return ErrChallengeNotFound
	}
	if ch.Expired(time.Now()) {
		return ErrChallengeExpired
	}

	ch.Consumed = true
	return nil
}

// Close stops the background sweeper.
func (s *MemoryChallengeStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *MemoryChallengeStore) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *MemoryChallengeStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ch := range s.challenges {
		if ch.Consumed || ch.Expired(now) {
			delete(s.challenges, k)
		}
	}
}
