package events

const (
	// KindConversationStarted identifies a newly opened conversation.
	KindConversationStarted Kind = "conversation.started"
	// KindConversationEnded identifies a closed conversation.
	KindConversationEnded Kind = "conversation.ended"
)

// ConversationStarted marks a conversation being opened.
type ConversationStarted struct {
	Base
	Assistant string
}

// NewConversationStarted creates a conversation started event.
func NewConversationStarted(conversationID, assistant string) ConversationStarted {
	return ConversationStarted{Base: NewBase(KindConversationStarted, conversationID), Assistant: assistant}
}

// ConversationEnded marks a conversation being closed.
type ConversationEnded struct {
	Base
	Reason string
}

// NewConversationEnded creates a conversation ended event.
func NewConversationEnded(conversationID, reason string) ConversationEnded {
	return ConversationEnded{Base: NewBase(KindConversationEnded, conversationID), Reason: reason}
}
