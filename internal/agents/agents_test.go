package agents_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "lowercases and trims",
			in:   []string{" Python ", "GO"},
			want: []string{"python", "go"},
		},
		{
			name: "deduplicates preserving order",
			in:   []string{"go", "rust", "Go", "rust"},
			want: []string{"go", "rust"},
		},
		{
			name: "drops empty entries",
			in:   []string{"", "  ", "go"},
			want: []string{"go"},
		},
		{
			name: "nil stays empty",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agents.NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTags_Cap(t *testing.T) {
	in := make([]string, 30)
	for i := range in {
		in[i] = strings.Repeat("x", i+1)
	}

	if got := agents.NormalizeTags(in); len(got) != 20 {
		t.Errorf("len = %d, want 20", len(got))
	}
}

func TestParsePublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid key", key: hex.EncodeToString(pub)},
		{name: "valid key with whitespace", key: " " + hex.EncodeToString(pub) + " "},
		{name: "not hex", key: strings.Repeat("zz", 32), wantErr: true},
		{name: "too short", key: "deadbeef", wantErr: true},
		{name: "too long", key: hex.EncodeToString(pub) + "00", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agents.ParsePublicKey(tt.key)

			if tt.wantErr {
				if !errors.Is(err, agents.ErrInvalidKey) {
					t.Errorf("err = %v, want ErrInvalidKey", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !pub.Equal(got) {
				t.Error("parsed key does not match original")
			}
		})
	}
}

func TestDeriveAgentID(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	id := agents.DeriveAgentID(pub)

	if len(id) != 16 {
		t.Errorf("len = %d, want 16", len(id))
	}
	if id != agents.DeriveAgentID(pub) {
		t.Error("derivation is not deterministic")
	}

	other, _, _ := ed25519.GenerateKey(rand.Reader)
	if id == agents.DeriveAgentID(other) {
		t.Error("distinct keys derived the same agent id")
	}
}

func TestAgent_ProfileComplete(t *testing.T) {
	tests := []struct {
		name  string
		agent agents.Agent
		want  bool
	}{
		{
			name:  "complete",
			agent: agents.Agent{Handle: "forge", Bio: "bio", Skills: []string{"go", "rust", "sql"}},
			want:  true,
		},
		{
			name:  "missing handle",
			agent: agents.Agent{Bio: "bio", Skills: []string{"go", "rust", "sql"}},
		},
		{
			name:  "missing bio",
			agent: agents.Agent{Handle: "forge", Skills: []string{"go", "rust", "sql"}},
		},
		{
			name:  "too few skills",
			agent: agents.Agent{Handle: "forge", Bio: "bio", Skills: []string{"go", "rust"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.agent.ProfileComplete(); got != tt.want {
				t.Errorf("ProfileComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []agents.Status{agents.StatusPending, agents.StatusActive, agents.StatusSuspended, agents.StatusBanned} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if agents.Status("deleted").Valid() {
		t.Error("unknown status should not be valid")
	}
}
