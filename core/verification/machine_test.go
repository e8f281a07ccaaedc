package verification

import (
	"errors"
	"testing"

	"github.com/koscakluka/ema-assist/core/records"
)

var john = records.FraudCase{ID: 1, UserName: "John", SecurityAnswer: "Smith", Status: records.CasePendingReview}

func TestNoCasePreconditions(t *testing.T) {
	m := New()

	if _, err := m.Verify("Smith"); !errors.Is(err, ErrNoCase) {
		t.Fatalf("expected ErrNoCase, got %v", err)
	}

	persisted := false
	err := m.Dispose(records.CaseConfirmedSafe, func(records.FraudCase) error {
		persisted = true
		return nil
	})
	if !errors.Is(err, ErrNoCase) {
		t.Fatalf("expected ErrNoCase, got %v", err)
	}
	if persisted || m.State() != NoCase {
		t.Fatalf("expected no mutation, got persisted=%v state=%v", persisted, m.State())
	}
}

func TestHappyPath(t *testing.T) {
	m := New()
	if err := m.Load(john); err != nil {
		t.Fatalf("load: %v", err)
	}

	ok, err := m.Verify("  smith ")
	if err != nil || !ok {
		t.Fatalf("expected verification to succeed, got ok=%v err=%v", ok, err)
	}

	var persistedID uint
	err = m.Dispose(records.CaseConfirmedSafe, func(c records.FraudCase) error {
		persistedID = c.ID
		return nil
	})
	if err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if persistedID != john.ID {
		t.Fatalf("expected case %d persisted, got %d", john.ID, persistedID)
	}
	if status, ok := m.DisposedAs(); !ok || status != records.CaseConfirmedSafe {
		t.Fatalf("unexpected disposal %v %v", status, ok)
	}
	if err := m.CheckDispose(records.CaseConfirmedFraud); !errors.Is(err, ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed, got %v", err)
	}
}

func TestFailedVerificationOnlyAllowsOverride(t *testing.T) {
	m := New()
	_ = m.Load(john)

	ok, err := m.Verify("Jones")
	if err != nil || ok {
		t.Fatalf("expected failed verification, got ok=%v err=%v", ok, err)
	}
	if m.State() != VerificationFailed {
		t.Fatalf("expected VerificationFailed, got %v", m.State())
	}

	if _, err := m.Verify("Smith"); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("expected no retry, got %v", err)
	}
	if err := m.Load(john); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("expected reload to be refused, got %v", err)
	}
	if err := m.CheckDispose(records.CaseConfirmedSafe); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if err := m.Dispose(records.CaseVerificationFailed, nil); err != nil {
		t.Fatalf("expected override disposal, got %v", err)
	}
}

func TestUnverifiedCaseCannotBeConfirmed(t *testing.T) {
	m := New()
	_ = m.Load(john)

	if err := m.CheckDispose(records.CaseConfirmedFraud); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if err := m.CheckDispose(records.CaseStatus("maybe")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestFailedPersistKeepsState(t *testing.T) {
	m := New()
	_ = m.Load(john)
	_, _ = m.Verify("Smith")

	want := errors.New("database is locked")
	if err := m.Dispose(records.CaseConfirmedFraud, func(records.FraudCase) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if m.State() != Verified {
		t.Fatalf("expected to stay Verified, got %v", m.State())
	}
}

func TestReloadBeforeVerify(t *testing.T) {
	m := New()
	_ = m.Load(john)
	jane := records.FraudCase{ID: 2, UserName: "Jane", SecurityAnswer: "Fluffy"}
	if err := m.Load(jane); err != nil {
		t.Fatalf("expected reload before verify, got %v", err)
	}
	if c, _ := m.Case(); c.ID != 2 {
		t.Fatalf("expected Jane's case, got %d", c.ID)
	}
}

func TestBlankAnswerDoesNotConsumeAttempt(t *testing.T) {
	m := New()
	_ = m.Load(john)

	if _, err := m.Verify("   "); !errors.Is(err, ErrBlankAnswer) {
		t.Fatalf("expected ErrBlankAnswer, got %v", err)
	}
	if m.State() != CaseLoaded {
		t.Fatalf("expected CaseLoaded, got %v", m.State())
	}
}

func TestAnswerMatchesIsLenient(t *testing.T) {
	testCases := []struct {
		expected, provided string
		want               bool
	}{
		{"Smith", "smith", true},
		{"Smith", "It's Smith", true},
		{"Smith", "Smithsonian", true},
		{"Smith", "smi", true},
		{"Smith", "Jones", false},
		{"Smith", "", false},
	}
	for _, tc := range testCases {
		if got := AnswerMatches(tc.expected, tc.provided); got != tc.want {
			t.Fatalf("AnswerMatches(%q, %q) got=%v want=%v", tc.expected, tc.provided, got, tc.want)
		}
	}
}
