package checkout

// Status is the checkout session lifecycle. Sessions are never deleted, only
// status-transitioned; abandoned sessions simply stay draft or scheduled.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string { return string(s) }

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from→to is a legal lifecycle move.
// Self-transitions are allowed so stage re-submits stay idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known lifecycle values.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusScheduled, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
