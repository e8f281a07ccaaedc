package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
	ConversationID() string
}

type Base struct {
	kind           Kind
	timestamp      time.Time
	conversationID string
}

func NewBase(kind Kind, conversationID string) Base {
	return Base{kind: kind, timestamp: time.Now(), conversationID: conversationID}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

func (b Base) ConversationID() string {
	return b.conversationID
}
