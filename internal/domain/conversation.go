package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table. A conversation carries no
// intrinsic content; UpdatedAt is bumped on every accepted message.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Participants []Participant `json:"participants,omitempty"`
}

// Participant represents the participants table. A (conversation, profile)
// pair is unique; exactly two distinct participants make a direct
// conversation, more make a group.
type Participant struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	ProfileID      uuid.UUID `json:"profile_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "participants"
}
