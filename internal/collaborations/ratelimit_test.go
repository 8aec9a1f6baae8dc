package collaborations_test

import (
	"testing"
	"time"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/collaborations"
)

func TestRateLimiter_Window(t *testing.T) {
	limiter := collaborations.NewRateLimiter(30, time.Minute)
	base := time.Now()

	for i := range 30 {
		ok, _ := limiter.Allow("sender", "collab", base.Add(time.Duration(i)*time.Second))
		if !ok {
			t.Fatalf("message %d denied, want allowed", i+1)
		}
	}

	ok, retryAfter := limiter.Allow("sender", "collab", base.Add(30*time.Second))
	if ok {
		t.Fatal("31st message allowed, want denied")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %s, want positive", retryAfter)
	}
}

func TestRateLimiter_SlidesForward(t *testing.T) {
	limiter := collaborations.NewRateLimiter(2, time.Minute)
	base := time.Now()

	limiter.Allow("s", "c", base)
	limiter.Allow("s", "c", base.Add(time.Second))

	if ok, _ := limiter.Allow("s", "c", base.Add(2*time.Second)); ok {
		t.Fatal("third message inside window allowed, want denied")
	}

	// Once the first message falls out of the window, capacity frees up.
	if ok, _ := limiter.Allow("s", "c", base.Add(61*time.Second)); !ok {
		t.Fatal("message after window slide denied, want allowed")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := collaborations.NewRateLimiter(1, time.Minute)
	now := time.Now()

	limiter.Allow("s1", "c1", now)

	tests := []struct {
		name     string
		senderID string
		collabID string
	}{
		{name: "different sender same collab", senderID: "s2", collabID: "c1"},
		{name: "same sender different collab", senderID: "s1", collabID: "c2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ok, _ := limiter.Allow(tt.senderID, tt.collabID, now); !ok {
				t.Error("denied, want allowed: limits must be scoped per (sender, collab)")
			}
		})
	}
}

func TestRateLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := collaborations.NewRateLimiter(1, time.Minute)
	base := time.Now()

	limiter.Allow("s1", "c1", base)
	limiter.Allow("s2", "c2", base)

	if got := limiter.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}

	// Two windows later both pairs are idle; the next call sweeps them out.
	limiter.Allow("s3", "c3", base.Add(2*time.Minute))

	if got := limiter.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1 after idle keys evicted", got)
	}
}

func TestRateLimiter_DeniedAttemptNotRecorded(t *testing.T) {
	limiter := collaborations.NewRateLimiter(1, time.Minute)
	base := time.Now()

	limiter.Allow("s", "c", base)
	limiter.Allow("s", "c", base.Add(time.Second))

	// Only the admitted message occupies the window, so capacity returns
	// when it expires, not later.
	if ok, _ := limiter.Allow("s", "c", base.Add(61*time.Second)); !ok {
		t.Error("denied, want allowed after original message left the window")
	}
}
