package events

// KindRecordPersisted identifies a durable write made by a tool.
const KindRecordPersisted Kind = "record.persisted"

// RecordPersisted carries the store and id of a written record.
type RecordPersisted struct {
	Base
	Store    string
	RecordID string
}

// NewRecordPersisted creates a record persisted event.
func NewRecordPersisted(conversationID, store, recordID string) RecordPersisted {
	return RecordPersisted{Base: NewBase(KindRecordPersisted, conversationID), Store: store, RecordID: recordID}
}
