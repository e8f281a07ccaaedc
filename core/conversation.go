package orchestration

import (
	"context"
	"sync"

	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/core/voice"
)

var _ session.Host = (*Conversation)(nil)

// Conversation is one caller talking to one assistant. Its session state is
// touched only by its own worker goroutine, one job at a time, in the order
// the jobs arrived.
type Conversation struct {
	id    string
	kind  assistants.Kind
	state *session.State

	registry *tools.Registry
	selector *voice.Selector
	speaker  *texttospeech.Speaker

	orchestrator *Orchestrator
	emit         eventEmitter

	jobs    chan job
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	endOnce sync.Once

	mu            sync.Mutex
	ended         bool
	hangup        string
	appliedVoice  *voiceChange
	speechOptions []texttospeech.TextToSpeechOption
}

type job struct {
	ctx context.Context
	run func(context.Context)
	// ran receives whether run was called.
	ran chan bool
}

type voiceChange struct {
	from   voice.Voice
	signal voice.Signal
}

func newConversation(id string, kind assistants.Kind, o *Orchestrator) *Conversation {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conversation{
		id:            id,
		kind:          kind,
		state:         session.NewState(),
		orchestrator:  o,
		emit:          o.emit,
		jobs:          make(chan job),
		ctx:           ctx,
		cancel:        cancel,
		stopped:       make(chan struct{}),
		speechOptions: o.speechOptions,
	}

	initial, ok := o.env.Voices.Voice(c.state.Mode)
	if !ok {
		initial = voice.DefaultVoice
	}
	c.selector = voice.NewSelector(initial, voice.WithAppliedCallback(c.voiceApplied))
	c.speaker = texttospeech.NewSpeaker(c.selector, &conversationSynthesizer{conversation: c, next: o.textToSpeech})
	return c
}

func (c *Conversation) start(registry *tools.Registry) {
	c.registry = registry
	go c.run()
}

func (c *Conversation) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.ctx.Done():
			return
		case j := <-c.jobs:
			if j.ctx.Err() != nil {
				j.ran <- false
				continue
			}
			j.run(j.ctx)
			j.ran <- true
		}
	}
}

// submit queues fn behind every earlier job and waits for it to finish. It
// reports false when fn never ran.
func (c *Conversation) submit(ctx context.Context, fn func(context.Context)) bool {
	if ctx.Err() != nil {
		return false
	}
	j := job{ctx: ctx, run: fn, ran: make(chan bool, 1)}

	select {
	case c.jobs <- j:
	case <-c.ctx.Done():
		return false
	case <-ctx.Done():
		return false
	}

	select {
	case ran := <-j.ran:
		return ran
	case <-c.stopped:
		return false
	}
}

func (c *Conversation) ID() string {
	return c.id
}

func (c *Conversation) Kind() assistants.Kind {
	return c.kind
}

// Greeting is what the assistant says when the call connects.
func (c *Conversation) Greeting() string {
	return c.kind.Greeting()
}

// Tools describes the tools the language model may call.
func (c *Conversation) Tools() []tools.Definition {
	return c.registry.Definitions()
}

// Voice is the voice of the latest utterance. A requested change shows up
// here only once the next utterance has started.
func (c *Conversation) Voice() voice.Voice {
	return c.selector.Current()
}

// End stops the conversation. Queued tool calls that have not started are
// dropped; a running one finishes first.
func (c *Conversation) End(reason string) {
	c.endOnce.Do(func() {
		c.mu.Lock()
		c.ended = true
		c.mu.Unlock()

		c.cancel()
		<-c.stopped

		logger.Info("conversation ended", "conversation.id", c.id, "reason", reason)
		c.emit(events.NewConversationEnded(c.id, reason))
	})
}

func (c *Conversation) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// HangupRequested reports whether a tool asked to end the call, and why.
// The voice layer should hang up after narrating the last result.
func (c *Conversation) HangupRequested() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hangup, c.hangup != ""
}

func (c *Conversation) RequestVoice(signal voice.Signal) {
	if err := c.selector.Request(signal); err != nil {
		logger.Warn("ignored voice change", "conversation.id", c.id, "error", err)
		return
	}
	c.emit(events.NewVoiceChangeRequested(c.id, string(signal.Mode), string(signal.Voice)))
}

func (c *Conversation) EndCall(reason string) {
	c.mu.Lock()
	c.hangup = reason
	c.mu.Unlock()
}

func (c *Conversation) Persisted(store, recordID string) {
	c.emit(events.NewRecordPersisted(c.id, store, recordID))
}

func (c *Conversation) voiceApplied(from voice.Voice, signal voice.Signal) {
	c.mu.Lock()
	c.appliedVoice = &voiceChange{from: from, signal: signal}
	c.mu.Unlock()
}

func (c *Conversation) takeAppliedVoice() *voiceChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	change := c.appliedVoice
	c.appliedVoice = nil
	return change
}
