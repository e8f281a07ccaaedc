// Package events defines the typed event contract emitted while
// conversations run.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - conversation.*
//   - tool_call.*
//   - record.*
//   - voice.*
//   - assistant_speech.*
//
// Every event carries the id of the conversation it belongs to.
//
// conversation events
//
//   - ConversationStarted (conversation.started): a conversation was opened
//     for an assistant.
//   - ConversationEnded (conversation.ended): a conversation was closed,
//     either explicitly, by the assistant hanging up or by expiry.
//
// tool_call events
//
//   - ToolCallStarted (tool_call.started): tool execution started.
//   - ToolCallCompleted (tool_call.completed): tool execution completed.
//   - ToolCallFailed (tool_call.failed): tool execution failed. The result
//     string returned to the model is still emitted as the response.
//
// record events
//
//   - RecordPersisted (record.persisted): a tool durably wrote an order,
//     lead, case update or game save.
//
// voice events
//
//   - VoiceChangeRequested (voice.change_requested): a tool asked for a new
//     voice. Nothing changes yet.
//   - VoiceChanged (voice.changed): the requested voice took effect at the
//     start of an utterance.
//
// assistant_speech events
//
//   - AssistantSpeechStarted (assistant_speech.started): an utterance began
//     with the voice fixed for its whole length.
//   - AssistantSpeechFrame (assistant_speech.frame): synthesized speech audio
//     frame.
//   - AssistantSpeechFinal (assistant_speech.final): synthesis of the
//     utterance ended.
package events
