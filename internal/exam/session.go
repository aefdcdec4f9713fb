package exam

import "github.com/google/uuid"

// Phase is the lifecycle of one test attempt.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSelected  Phase = "selected"
	PhaseStarted   Phase = "started"
	PhaseSubmitted Phase = "submitted"
)

// Session holds the minimal mutable state of one attempt. Transitions are
// methods of the form (event) -> (order, changed): they mutate nothing unless
// their preconditions hold, and the returned order tells the caller which
// effects to run. Invalid transitions are silent no-ops (changed == false).
type Session struct {
	ID                  string `json:"id"`
	Phase               Phase  `json:"phase"`
	PendingTestID       string `json:"pending_test_id,omitempty"`
	PendingFile         string `json:"pending_file,omitempty"`
	PendingTimeLimitSec int    `json:"pending_time_limit_sec,omitempty"`
}

func NewSession() Session {
	return Session{ID: uuid.NewString(), Phase: PhaseIdle}
}

// Select records a catalog choice. It is a no-op for the placeholder entry
// (empty file) and for entries without a resolvable id or time limit, and is
// rejected outright once the attempt has started: the Started lock, not the
// selection handler, is what makes re-selection impossible mid-attempt.
func (s *Session) Select(testID, file string, timeLimitSec int) bool {
	if s.SelectorLocked() {
		return false
	}
	if testID == "" || file == "" || timeLimitSec <= 0 {
		return false
	}
	s.PendingTestID = testID
	s.PendingFile = file
	s.PendingTimeLimitSec = timeLimitSec
	s.Phase = PhaseSelected
	return true
}

// StartOrder carries the effects of a successful start: run the countdown and
// resolve this test's question set.
type StartOrder struct {
	TestID       string
	TimeLimitSec int
}

func (s *Session) Start() (StartOrder, bool) {
	if s.Phase != PhaseSelected || s.PendingTestID == "" || s.PendingTimeLimitSec <= 0 {
		return StartOrder{}, false
	}
	s.Phase = PhaseStarted
	return StartOrder{TestID: s.PendingTestID, TimeLimitSec: s.PendingTimeLimitSec}, true
}

// SubmitOrder carries the effects of a confirmed submit: persist the answers
// and hand off to review.
type SubmitOrder struct {
	TestID string
	File   string
}

// Submit finishes the attempt. A declined confirmation leaves the session in
// Started with no side effects.
func (s *Session) Submit(confirmed bool) (SubmitOrder, bool) {
	if s.Phase != PhaseStarted || s.PendingTestID == "" || s.PendingFile == "" {
		return SubmitOrder{}, false
	}
	if !confirmed {
		return SubmitOrder{}, false
	}
	s.Phase = PhaseSubmitted
	return SubmitOrder{TestID: s.PendingTestID, File: s.PendingFile}, true
}

// SelectorLocked reports whether the catalog selector must reject input:
// at most one test attempt per session.
func (s *Session) SelectorLocked() bool {
	return s.Phase == PhaseStarted || s.Phase == PhaseSubmitted
}
