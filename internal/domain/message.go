package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageStatus is the delivery state of a message. It only ever advances
// sent -> delivered -> read; the repository predicates every update on the
// current status so a regression is impossible.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// Valid reports whether s is a known delivery status.
func (s MessageStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Message represents the messages table. Content is immutable once created
// and is always treated as data, never as markup.
type Message struct {
	ID             uuid.UUID     `json:"id"`
	ConversationID uuid.UUID     `json:"conversation_id"`
	SenderID       uuid.UUID     `json:"sender_id"`
	Content        string        `json:"content"`
	Status         MessageStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageWithSender is a message joined with its sender profile for the chat
// surface. Sender is nil when profile enrichment failed.
type MessageWithSender struct {
	Message
	Sender *Profile `json:"sender"`
}
