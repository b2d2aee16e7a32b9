package services

import (
	"context"
	"time"

	"ripple-chat/internal/domain"
	"ripple-chat/internal/events"
	"ripple-chat/internal/repository"
	ripple_errors "ripple-chat/pkg/errors"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReadStateService tracks which messages a viewer has seen. Read state lives
// on the message rows themselves; a message is unread for a viewer when
// someone else sent it and it has not reached status "read". Delivery to a
// live connection is a transport fact, not a viewing fact, so "delivered"
// messages still count as unread.
type ReadStateService struct {
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	bus           events.Bus
	log           *logger.Logger
}

func NewReadStateService(
	messages repository.MessageRepository,
	conversations repository.ConversationRepository,
	bus events.Bus,
	log *logger.Logger,
) *ReadStateService {
	return &ReadStateService{
		messages:      messages,
		conversations: conversations,
		bus:           bus,
		log:           log,
	}
}

// MarkConversationRead flips every unread message in the conversation to
// "read" for the viewer. Messages the viewer sent themselves are never
// touched, so a sender cannot mark their own messages read.
func (s *ReadStateService) MarkConversationRead(ctx context.Context, conversationID, viewerID uuid.UUID) error {
	ok, err := s.conversations.IsParticipant(ctx, conversationID, viewerID)
	if err != nil {
		return err
	}
	if !ok {
		return ripple_errors.ErrForbidden
	}

	affected, err := s.messages.MarkConversationRead(ctx, conversationID, viewerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	if err := s.bus.Publish(ctx, events.Envelope{
		Type:           events.TypeReceiptRead,
		ConversationID: conversationID,
		ProfileID:      viewerID,
		OccurredAt:     time.Now(),
	}); err != nil {
		s.log.WarnCtx(ctx, "read receipt publish failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
	}
	return nil
}

// UnreadCount returns how many messages are unread for the viewer.
func (s *ReadStateService) UnreadCount(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error) {
	return s.messages.UnreadCount(ctx, conversationID, viewerID)
}

// MarkMessageDelivered advances a message from "sent" to "delivered" when it
// was pushed to a live connection of the recipient. Messages that already
// reached "read" are left where they are.
func (s *ReadStateService) MarkMessageDelivered(ctx context.Context, messageID, recipientID uuid.UUID) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID == recipientID {
		return nil
	}
	return s.messages.AdvanceStatus(ctx, messageID, domain.StatusSent, domain.StatusDelivered)
}

// MarkMessageRead advances a single message to "read" on behalf of the
// viewer, from "sent" or "delivered" alike. The viewer's own messages and
// messages already read are left alone; neither case is an error.
func (s *ReadStateService) MarkMessageRead(ctx context.Context, messageID, viewerID uuid.UUID) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID == viewerID || msg.Status == domain.StatusRead {
		return nil
	}
	return s.messages.AdvanceStatus(ctx, messageID, msg.Status, domain.StatusRead)
}
