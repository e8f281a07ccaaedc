package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "conversation started", event: NewConversationStarted("c1", "barista"), expected: KindConversationStarted},
		{name: "conversation ended", event: NewConversationEnded("c1", "hangup"), expected: KindConversationEnded},
		{name: "tool call started", event: NewToolCallStarted("c1", "t1", "get_cart", "{}"), expected: KindToolCallStarted},
		{name: "tool call completed", event: NewToolCallCompleted("c1", "t1", "get_cart", "ok"), expected: KindToolCallCompleted},
		{name: "tool call failed", event: NewToolCallFailed("c1", "t1", "get_cart", "boom", "sorry"), expected: KindToolCallFailed},
		{name: "record persisted", event: NewRecordPersisted("c1", "orders", "o1"), expected: KindRecordPersisted},
		{name: "voice change requested", event: NewVoiceChangeRequested("c1", "quiz", "aura-asteria-en"), expected: KindVoiceChangeRequested},
		{name: "voice changed", event: NewVoiceChanged("c1", "a", "b", "quiz", 2), expected: KindVoiceChanged},
		{name: "assistant speech started", event: NewAssistantSpeechStarted("c1", 1, "a", "hi"), expected: KindAssistantSpeechStarted},
		{name: "assistant speech frame", event: NewAssistantSpeechFrame("c1", 1, []byte{1}), expected: KindAssistantSpeechFrame},
		{name: "assistant speech final", event: NewAssistantSpeechFinal("c1", 1), expected: KindAssistantSpeechFinal},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if got := testCase.event.ConversationID(); got != "c1" {
				t.Fatalf("expected conversation id %q, got %q", "c1", got)
			}
		})
	}
}

func TestVoiceRequestAndChangeKindsAreDistinct(t *testing.T) {
	requested := NewVoiceChangeRequested("c1", "quiz", "b")
	changed := NewVoiceChanged("c1", "a", "b", "quiz", 1)

	if requested.Kind() == changed.Kind() {
		t.Fatalf("expected requested and changed kinds to differ, both were %q", requested.Kind())
	}
}
