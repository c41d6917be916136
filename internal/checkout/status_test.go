package checkout

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusScheduled, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusActive, false},
		{StatusScheduled, StatusActive, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusActive, StatusCompleted, true},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusDraft, false},
		{StatusScheduled, StatusScheduled, true}, // idempotent re-submit
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
	if StatusDraft.IsTerminal() || StatusScheduled.IsTerminal() || StatusActive.IsTerminal() {
		t.Fatal("non-terminal status reported terminal")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"draft", "scheduled", "active", "completed", "cancelled"} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("paid") || ValidStatus("") {
		t.Fatal("unknown status accepted")
	}
}
