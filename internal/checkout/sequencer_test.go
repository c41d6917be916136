package checkout

import "testing"

func TestSequencerNeverLeavesBounds(t *testing.T) {
	s := NewSequencer()

	s.Back()
	s.Back()
	if s.Current() != 1 {
		t.Fatalf("backed below first step: %d", s.Current())
	}

	for i := 0; i < len(Steps)+5; i++ {
		s.Advance()
	}
	if s.Current() != len(Steps) {
		t.Fatalf("advanced past last step: %d", s.Current())
	}
	if !s.Done() {
		t.Fatal("expected terminal step")
	}
}

func TestSequencerAdvancesInOrder(t *testing.T) {
	s := NewSequencer()
	want := []int{2, 3, 4, 5, 6, 7, 8}
	for _, w := range want {
		if got := s.Advance(); got != w {
			t.Fatalf("advance = %d, want %d", got, w)
		}
	}
}

func TestResumeClampsPersistedStep(t *testing.T) {
	if got := Resume(0).Current(); got != 1 {
		t.Fatalf("resume(0) = %d, want 1", got)
	}
	if got := Resume(99).Current(); got != len(Steps) {
		t.Fatalf("resume(99) = %d, want %d", got, len(Steps))
	}
	if got := Resume(StepPayment).Current(); got != StepPayment {
		t.Fatalf("resume(payment) = %d, want %d", got, StepPayment)
	}
}

func TestStepDescriptorsAreSequential(t *testing.T) {
	for i, step := range Steps {
		if step.Number != i+1 {
			t.Fatalf("step %d numbered %d", i, step.Number)
		}
		if step.Title == "" || step.Icon == "" {
			t.Fatalf("step %d missing metadata: %+v", i, step)
		}
	}
}
