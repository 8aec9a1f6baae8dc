package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PostgresChallengeStore persists challenges in the auth_challenges table.
// Consumption is a compare-and-swap UPDATE so concurrent verifiers cannot
// both win the same nonce.
type PostgresChallengeStore struct {
	db        *sql.DB
	logger    *slog.Logger
	done      chan struct{}
	closeOnce func()
}

// NewPostgresChallengeStore creates a database-backed challenge store. The
// sweep interval controls how often expired rows are purged; zero disables
// the sweeper.
func NewPostgresChallengeStore(db *sql.DB, logger *slog.Logger, sweep time.Duration) *PostgresChallengeStore {
	done := make(chan struct{})
	s := &PostgresChallengeStore{
		db:        db,
		logger:    logger.With("system", "auth"),
		done:      done,
		closeOnce: sync.OnceFunc(func() { close(done) }),
	}
	if sweep > 0 {
		go s.run(sweep)
	}
	return s
}

func (s *PostgresChallengeStore) Put(ctx context.Context, ch Challenge) error {
	q := `
		INSERT INTO auth_challenges (public_key, nonce, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := s.db.ExecContext(ctx, q, ch.PublicKey, ch.Nonce, ch.ExpiresAt); err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

func (s *PostgresChallengeStore) Get(ctx context.Context, publicKey, nonce string) (*Challenge, error) {
	q := `
		SELECT public_key, nonce, expires_at, consumed
		FROM auth_challenges
		WHERE public_key = $1 AND nonce = $2`

	var ch Challenge
	err := s.db.QueryRowContext(ctx, q, publicKey, nonce).
		Scan(&ch.PublicKey, &ch.Nonce, &ch.ExpiresAt, &ch.Consumed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query challenge: %w", err)
	}

	if ch.Consumed {
		return nil, ErrChallengeNotFound
	}
	if ch.Expired(time.Now()) {
		return nil, ErrChallengeExpired
	}
	return &ch, nil
}

func (s *PostgresChallengeStore) Consume(ctx context.Context, publicKey, nonce string) error {
	// First writer wins; everyone else sees zero rows updated.
	q := `
		UPDATE auth_challenges
		SET consumed = TRUE
		WHERE public_key = $1 AND nonce = $2 AND consumed = FALSE AND expires_at > NOW()`

	res, err := s.db.ExecContext(ctx, q, publicKey, nonce)
	if err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	if rows == 0 {
		if _, err := s.Get(ctx, publicKey, nonce); err != nil {
			return err
		}
		return ErrChallengeNotFound
	}
	return nil
}

// Close stops the background sweeper.
func (s *PostgresChallengeStore) Close() {
	s.closeOnce()
}

func (s *PostgresChallengeStore) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *PostgresChallengeStore) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	q := `DELETE FROM auth_challenges WHERE consumed = TRUE OR expires_at < NOW()`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		s.logger.Error("challenge sweep failed", "error", err)
	}
}
