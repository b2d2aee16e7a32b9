package events

import (
	"context"
	"time"

	"ripple-chat/internal/domain"

	"github.com/google/uuid"
)

// Event type constants, format domain.action
const (
	TypeMessageCreated      = "message.created"
	TypeReceiptRead         = "receipt.read"
	TypeConversationCreated = "conversation.created"
	TypePresenceOnline      = "presence.online"
	TypePresenceOffline     = "presence.offline"
)

// Envelope is the payload pushed through the change feed. For
// message.created events Message carries the inserted row; subscribers fetch
// the sender profile themselves, the feed does not embed it.
type Envelope struct {
	Type           string          `json:"event_type"`
	ConversationID uuid.UUID       `json:"conversation_id,omitempty"`
	ProfileID      uuid.UUID       `json:"profile_id,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Message        *domain.Message `json:"message,omitempty"`
}

// HandlerFunc consumes one envelope. Errors are logged by the bus, never
// propagated to the publisher.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Subscription is an active feed registration. Close releases it; pending
// deliveries after Close are dropped silently.
type Subscription interface {
	Close() error
}

// Bus is the change-feed boundary: publish an envelope to its resolved
// channels, or subscribe to a single channel / every channel.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	Subscribe(ctx context.Context, channel string, fn HandlerFunc) (Subscription, error)
	SubscribeAll(ctx context.Context, fn HandlerFunc) (Subscription, error)
}
