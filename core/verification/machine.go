// Package verification walks a caller through knowledge-based verification
// of a single fraud case.
//
// The flow is NoCase -> CaseLoaded -> Verified -> Disposed, with
// VerificationFailed as a dead end reachable from CaseLoaded. A case may be
// disposed with any status once the caller is verified. Before that, only
// verification_failed is accepted, which is how a call that could not
// verify the caller gets closed out.
package verification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/records"
)

type State int

const (
	NoCase State = iota
	CaseLoaded
	Verified
	VerificationFailed
	Disposed
)

func (s State) String() string {
	switch s {
	case NoCase:
		return "no_case"
	case CaseLoaded:
		return "case_loaded"
	case Verified:
		return "verified"
	case VerificationFailed:
		return "verification_failed"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNoCase           = errors.New("no case loaded")
	ErrAlreadyAttempted = errors.New("verification was already attempted")
	ErrBlankAnswer      = errors.New("answer is empty")
	ErrNotVerified      = errors.New("caller is not verified")
	ErrInvalidStatus    = errors.New("invalid case status")
	ErrAlreadyDisposed  = errors.New("case is already disposed")
)

// Machine is the verification progress of one conversation.
type Machine struct {
	state    State
	active   records.FraudCase
	disposed records.CaseStatus
}

func New() *Machine {
	return &Machine{state: NoCase}
}

func (m *Machine) State() State {
	return m.state
}

// Case returns the active case, if one is loaded.
func (m *Machine) Case() (records.FraudCase, bool) {
	if m.state == NoCase {
		return records.FraudCase{}, false
	}
	return m.active, true
}

// Load makes c the active case. Loading is allowed until the first
// verification attempt, so a misheard name can be corrected.
func (m *Machine) Load(c records.FraudCase) error {
	switch m.state {
	case NoCase, CaseLoaded:
		m.active = c
		m.state = CaseLoaded
		return nil
	case Disposed:
		return ErrAlreadyDisposed
	default:
		return ErrAlreadyAttempted
	}
}

// Verify checks answer against the active case and reports whether it
// matched. Only one attempt is allowed.
func (m *Machine) Verify(answer string) (bool, error) {
	switch m.state {
	case NoCase:
		return false, ErrNoCase
	case Disposed:
		return false, ErrAlreadyDisposed
	case Verified, VerificationFailed:
		return m.state == Verified, ErrAlreadyAttempted
	}

	if strings.TrimSpace(answer) == "" {
		return false, ErrBlankAnswer
	}

	if AnswerMatches(m.active.SecurityAnswer, answer) {
		m.state = Verified
		return true, nil
	}
	m.state = VerificationFailed
	return false, nil
}

// CheckDispose reports whether the active case may be closed with status.
func (m *Machine) CheckDispose(status records.CaseStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, status)
	}

	switch m.state {
	case NoCase:
		return ErrNoCase
	case Disposed:
		return ErrAlreadyDisposed
	case Verified:
		return nil
	default:
		if status == records.CaseVerificationFailed {
			return nil
		}
		return ErrNotVerified
	}
}

// Dispose closes the active case with status. persist runs only when the
// transition is allowed, and the machine moves to Disposed only when
// persist succeeds.
func (m *Machine) Dispose(status records.CaseStatus, persist func(records.FraudCase) error) error {
	if err := m.CheckDispose(status); err != nil {
		return err
	}
	if persist != nil {
		if err := persist(m.active); err != nil {
			return err
		}
	}
	m.active.Status = status
	m.disposed = status
	m.state = Disposed
	return nil
}

// DisposedAs returns the status the case was closed with.
func (m *Machine) DisposedAs() (records.CaseStatus, bool) {
	return m.disposed, m.state == Disposed
}

// AnswerMatches compares a spoken answer with the expected one. Either
// containing the other, ignoring case and surrounding space, is a match.
//
// TODO: a single letter matches any answer that contains it; require exact
// or whole-word matches once callers can rephrase the question.
func AnswerMatches(expected, provided string) bool {
	e := strings.ToLower(strings.TrimSpace(expected))
	p := strings.ToLower(strings.TrimSpace(provided))
	if e == "" || p == "" {
		return false
	}
	return strings.Contains(p, e) || strings.Contains(e, p)
}
