package orchestration

import (
	"time"

	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/voice"
	"github.com/koscakluka/ema-assist/core/world"
)

type OrchestratorOption func(*Orchestrator)

// EventHandler receives every event of every conversation. It is called
// from the goroutine that produced the event and must not block for long.
type EventHandler func(events.Event)

func WithEventHandler(handler EventHandler) OrchestratorOption {
	return func(o *Orchestrator) { o.emit = newPanicSafeEventEmitter(handler) }
}

// WithCatalog replaces the built-in catalog. The catalog is shared by every
// conversation and must not change afterwards.
func WithCatalog(c *catalog.Catalog) OrchestratorOption {
	return func(o *Orchestrator) {
		if c != nil {
			o.env.Catalog = c
		}
	}
}

func WithStores(stores session.Stores) OrchestratorOption {
	return func(o *Orchestrator) { o.env.Stores = stores }
}

// WithPool routes every store operation through pool. Without it store
// operations run on the calling goroutine with no timeout.
func WithPool(pool *store.Pool) OrchestratorOption {
	return func(o *Orchestrator) { o.env.Pool = pool }
}

func WithVoices(voices voice.Map) OrchestratorOption {
	return func(o *Orchestrator) { o.env.Voices = voices }
}

func WithDice(dice world.Dice) OrchestratorOption {
	return func(o *Orchestrator) { o.env.Dice = dice }
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.env.Now = now }
}

// TextToSpeech synthesizes utterances. Implementations are shared between
// conversations.
type TextToSpeech interface {
	texttospeech.Synthesizer
}

func WithTextToSpeechClient(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) { o.textToSpeech = client }
}

func WithTextToSpeechOptions(opts ...texttospeech.TextToSpeechOption) OrchestratorOption {
	return func(o *Orchestrator) { o.speechOptions = append(o.speechOptions, opts...) }
}

// WithConversationTTL ends conversations that have been idle for ttl.
func WithConversationTTL(ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}
