package repository

import (
	"context"
	"time"

	"ripple-chat/internal/domain"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (domain.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
	Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.Profile, error)
	Update(ctx context.Context, p domain.Profile) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type ConversationRepository interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	// GetByIDs returns the given conversations ordered by last activity,
	// most recent first.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Conversation, error)
	// Touch bumps the last-activity timestamp. Best-effort callers ignore
	// the error after logging it.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	AddParticipant(ctx context.Context, p *domain.Participant) error
	GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]domain.Participant, error)
	// ConversationIDsFor returns every conversation id the profile
	// participates in.
	ConversationIDsFor(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
	// ConversationIDsForIn restricts the lookup to the given candidate set.
	ConversationIDsForIn(ctx context.Context, profileID uuid.UUID, candidates []uuid.UUID) ([]uuid.UUID, error)
	IsParticipant(ctx context.Context, conversationID, profileID uuid.UUID) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Message, error)
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	LatestMessage(ctx context.Context, conversationID uuid.UUID) (domain.Message, error)
	// UnreadCount counts messages with sender != viewer not yet read.
	// Delivery to a live connection does not make a message read.
	UnreadCount(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error)
	// MarkConversationRead flips every not-yet-read message in the
	// conversation not sent by the viewer to "read", returning the
	// affected count.
	MarkConversationRead(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error)
	// AdvanceStatus moves one message from -> to. The update is predicated
	// on the current status so concurrent advances never regress.
	AdvanceStatus(ctx context.Context, messageID uuid.UUID, from, to domain.MessageStatus) error
}
