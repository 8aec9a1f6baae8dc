package collaborations_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/collaborations"
)

func TestCollaboration_Participant(t *testing.T) {
	c := collaborations.Collaboration{InitiatorID: "a1", PartnerID: "b2"}

	if !c.Participant("a1") || !c.Participant("b2") {
		t.Error("both parties should be participants")
	}
	if c.Participant("c3") {
		t.Error("outsider should not be a participant")
	}
}

func TestCollaboration_Other(t *testing.T) {
	c := collaborations.Collaboration{InitiatorID: "a1", PartnerID: "b2"}

	if got := c.Other("a1"); got != "b2" {
		t.Errorf("Other(a1) = %s, want b2", got)
	}
	if got := c.Other("b2"); got != "a1" {
		t.Errorf("Other(b2) = %s, want a1", got)
	}
}

func TestMessage_FlagReasonOmittedWhenClean(t *testing.T) {
	clean, err := json.Marshal(collaborations.Message{MsgID: "msg_x", Content: "hi"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(clean), "flag_reason") {
		t.Errorf("unflagged message carries flag_reason: %s", clean)
	}

	flagged, err := json.Marshal(collaborations.Message{
		MsgID:      "msg_y",
		Content:    "hi",
		IsFlagged:  true,
		FlagReason: "script_injection",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(flagged), `"flag_reason":"script_injection"`) {
		t.Errorf("flagged message missing flag_reason: %s", flagged)
	}
}

func TestType_Valid(t *testing.T) {
	valid := []collaborations.Type{
		collaborations.TypeSpeedCollab,
		collaborations.TypeDebate,
		collaborations.TypePairProgramming,
		collaborations.TypeResearch,
		collaborations.TypeGeneral,
	}
	for _, typ := range valid {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if collaborations.Type("karaoke").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestStatus_Open(t *testing.T) {
	tests := []struct {
		status collaborations.Status
		want   bool
	}{
		{collaborations.StatusPending, true},
		{collaborations.StatusActive, true},
		{collaborations.StatusCompleted, false},
		{collaborations.StatusCancelled, false},
		{collaborations.StatusFailed, false},
	}

	for _, tt := range tests {
		if got := tt.status.Open(); got != tt.want {
			t.Errorf("%s.Open() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
