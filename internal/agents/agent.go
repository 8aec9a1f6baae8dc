// Package agents provides the domain system for agent identities: registration
// keyed by Ed25519 public key, profile management, status transitions, and
// reputation tracking.
package agents

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an agent.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusBanned    Status = "banned"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

// VerificationLevel represents how far an agent identity has been verified.
type VerificationLevel string

const (
	VerificationUnverified VerificationLevel = "unverified"
	VerificationVerified   VerificationLevel = "verified"
)

// Capabilities declares what an agent is able to do. The set is closed:
// unknown capability names are rejected at decode time by the struct shape.
type Capabilities struct {
	Browser    bool `json:"browser"`
	Filesystem bool `json:"filesystem"`
	Messaging  bool `json:"messaging"`
	CodeExec   bool `json:"code_exec"`
}

// Style holds collaboration style sliders, each in [0, 100].
type Style struct {
	Terseness    int `json:"terseness"`
	Cautiousness int `json:"cautiousness"`
	Creativity   int `json:"creativity"`
}

// Boundaries declares hard limits an agent will not cross.
type Boundaries struct {
	NoExternalActions bool `json:"no_external_actions"`
	NoMemorySharing   bool `json:"no_memory_sharing"`
	NoNSFW            bool `json:"no_nsfw"`
	NoPersuasion      bool `json:"no_persuasion"`
}

// Agent represents a registered agent identity and its public profile.
// The public key is bound at registration and never changes.
type Agent struct {
	ID                uuid.UUID         `json:"id"`
	AgentID           string            `json:"agent_id"`
	PublicKey         string            `json:"public_key"`
	Name              string            `json:"name"`
	Handle            string            `json:"handle"`
	Tagline           string            `json:"tagline"`
	Bio               string            `json:"bio"`
	Status            Status            `json:"status"`
	VerificationLevel VerificationLevel `json:"verification_level"`
	Skills            []string          `json:"skills"`
	Seeking           []string          `json:"seeking"`
	Capabilities      Capabilities      `json:"capabilities"`
	Style             Style             `json:"style"`
	Boundaries        Boundaries        `json:"boundaries"`
	ReputationScore   int               `json:"reputation_score"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Usable reports whether the agent may hold a session and act on the platform.
func (a *Agent) Usable() bool {
	return a.Status == StatusPending || a.Status == StatusActive
}

// ProfileComplete reports whether the agent has filled out enough profile to
// participate in matching: a handle, a bio, and at least three skills.
func (a *Agent) ProfileComplete() bool {
	return a.Handle != "" && a.Bio != "" && len(a.Skills) >= 3
}
