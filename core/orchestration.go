// Package orchestration runs assistant conversations: it builds the tool
// set of each conversation, dispatches tool calls one at a time and turns
// every outcome into text the voice layer can narrate.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/metric"

	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/voice"
)

const DefaultConversationTTL = 30 * time.Minute

var (
	ErrOrchestratorClosed   = errors.New("orchestrator is closed")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Orchestrator owns the live conversations and the environment they share.
type Orchestrator struct {
	env           *session.Env
	emit          eventEmitter
	textToSpeech  TextToSpeech
	speechOptions []texttospeech.TextToSpeechOption
	ttl           time.Duration

	conversations *cache.Cache

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	toolCalls metric.Int64Counter
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		env: &session.Env{
			Catalog: catalog.Default(),
			Voices:  voice.DefaultMap(),
		},
		emit: noopEventEmitter,
		ttl:  DefaultConversationTTL,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.conversations = cache.New(o.ttl, o.ttl/2)
	o.conversations.OnEvicted(func(_ string, value any) {
		if conversation, ok := value.(*Conversation); ok {
			conversation.End("expired")
		}
	})

	var err error
	o.toolCalls, err = meter.Int64Counter("ema.tool.calls",
		metric.WithDescription("Tool calls dispatched, by tool and outcome"))
	if err != nil {
		logger.Warn("failed to create tool call counter", "error", err)
	}
	return o
}

// StartConversation opens a conversation with a fresh session of kind.
func (o *Orchestrator) StartConversation(ctx context.Context, kind assistants.Kind) (*Conversation, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return nil, ErrOrchestratorClosed
	}

	id := uuid.NewString()
	conversation := newConversation(id, kind, o)
	registry, err := assistants.Build(kind, o.env, conversation.state, conversation)
	if err != nil {
		return nil, err
	}
	conversation.start(registry)

	o.conversations.Set(id, conversation, cache.DefaultExpiration)
	logger.InfoContext(ctx, "conversation started", "conversation.id", id, "assistant", string(kind))
	o.emit(events.NewConversationStarted(id, string(kind)))
	return conversation, nil
}

// Conversation returns the live conversation with id and extends its
// lifetime.
func (o *Orchestrator) Conversation(id string) (*Conversation, error) {
	value, ok := o.conversations.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	conversation := value.(*Conversation)
	if conversation.Ended() {
		o.conversations.Delete(id)
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	o.conversations.Set(id, conversation, cache.DefaultExpiration)
	return conversation, nil
}

// EndConversation ends the conversation with id and forgets it.
func (o *Orchestrator) EndConversation(id, reason string) error {
	value, ok := o.conversations.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	value.(*Conversation).End(reason)
	o.conversations.Delete(id)
	return nil
}

// ConversationCount reports how many conversations are live.
func (o *Orchestrator) ConversationCount() int {
	return o.conversations.ItemCount()
}

// Close ends every conversation and refuses new ones.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		o.closed = true
		o.mu.Unlock()

		for _, item := range o.conversations.Items() {
			item.Object.(*Conversation).End("shutdown")
		}
		o.conversations.Flush()
	})
}
