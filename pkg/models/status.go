package models

// Status represents the review state shared by job listings and applications
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus normalizes a wire status string to a known Status
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// IsValid checks if the status is one of the known review states
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsTerminal checks if the status is a terminal state. Approved and rejected
// records never re-enter review; only the reason/feedback text stays mutable.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a record may move from s to next. The only
// legal moves are pending -> approved and pending -> rejected.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}
