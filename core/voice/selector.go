package voice

import "sync"

// Utterance is one stretch of synthesized speech and the voice it was
// started with.
type Utterance struct {
	Seq   uint64
	Voice Voice
}

type SelectorOption func(*Selector)

// WithAppliedCallback is called, outside the selector lock, whenever a
// requested voice takes effect.
func WithAppliedCallback(callback func(from Voice, signal Signal)) SelectorOption {
	return func(s *Selector) { s.onApplied = callback }
}

// Selector buffers voice changes and applies them at utterance boundaries.
type Selector struct {
	mu      sync.Mutex
	current Voice
	pending *Signal
	seq     uint64

	onApplied func(from Voice, signal Signal)
}

func NewSelector(initial Voice, opts ...SelectorOption) *Selector {
	if initial == "" {
		initial = DefaultVoice
	}
	s := &Selector{current: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request replaces any pending change with signal.
func (s *Selector) Request(signal Signal) error {
	if signal.Voice == "" {
		return ErrBlankVoice
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &signal
	return nil
}

// Begin starts a new utterance, first applying the pending change if there
// is one.
func (s *Selector) Begin() Utterance {
	s.mu.Lock()
	var (
		applied *Signal
		from    Voice
	)
	if s.pending != nil {
		applied, from = s.pending, s.current
		s.current = s.pending.Voice
		s.pending = nil
	}
	s.seq++
	utterance := Utterance{Seq: s.seq, Voice: s.current}
	onApplied := s.onApplied
	s.mu.Unlock()

	if applied != nil && onApplied != nil {
		onApplied(from, *applied)
	}
	return utterance
}

// Current returns the voice of the most recently started utterance.
func (s *Selector) Current() Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Selector) Pending() (Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Signal{}, false
	}
	return *s.pending, true
}
