package orchestration

import (
	"fmt"

	events "github.com/koscakluka/ema-assist/core/events"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newPanicSafeEventEmitter keeps a misbehaving handler from taking a
// conversation down with it.
func newPanicSafeEventEmitter(handler EventHandler) eventEmitter {
	if handler == nil {
		return noopEventEmitter
	}
	return func(event events.Event) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("event handler panicked", "kind", string(event.Kind()), "panic", fmt.Sprint(recovered))
			}
		}()
		handler(event)
	}
}
