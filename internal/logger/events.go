package logger

import (
	"github.com/koscakluka/ema-assist/core/events"
)

const eventsModule = "events"

// EventHandler logs orchestrator events through l. Audio frames are logged
// at debug level without their payload.
func EventHandler(l ILogger) func(events.Event) {
	return func(event events.Event) {
		details := map[string]any{
			"kind":            string(event.Kind()),
			"conversation_id": event.ConversationID(),
		}

		switch e := event.(type) {
		case events.ConversationStarted:
			details["assistant"] = e.Assistant
		case events.ConversationEnded:
			details["reason"] = e.Reason
		case events.ToolCallStarted:
			details["tool"] = e.Name
			details["arguments"] = e.Arguments
		case events.ToolCallCompleted:
			details["tool"] = e.Name
		case events.ToolCallFailed:
			details["tool"] = e.Name
			details["error"] = e.Error
			l.Warn(eventsModule, "tool call failed", details)
			return
		case events.RecordPersisted:
			details["store"] = e.Store
			details["record_id"] = e.RecordID
		case events.VoiceChangeRequested:
			details["mode"] = e.Mode
			details["voice"] = e.Voice
		case events.VoiceChanged:
			details["from"] = e.From
			details["to"] = e.To
			details["utterance"] = e.Utterance
		case events.AssistantSpeechStarted:
			details["utterance"] = e.Utterance
			details["voice"] = e.Voice
		case events.AssistantSpeechFrame:
			details["utterance"] = e.Utterance
			details["bytes"] = len(e.Audio)
			l.Debug(eventsModule, string(event.Kind()), details)
			return
		case events.AssistantSpeechFinal:
			details["utterance"] = e.Utterance
		}

		l.Info(eventsModule, string(event.Kind()), details)
	}
}
