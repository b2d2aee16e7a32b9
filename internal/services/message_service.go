package services

import (
	"context"
	"strings"
	"time"

	"ripple-chat/internal/domain"
	"ripple-chat/internal/events"
	"ripple-chat/internal/moderation"
	"ripple-chat/internal/repository"
	ripple_errors "ripple-chat/pkg/errors"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageService struct {
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	profiles      repository.ProfileRepository
	screener      *moderation.Screener
	bus           events.Bus
	log           *logger.Logger
}

func NewMessageService(
	messages repository.MessageRepository,
	conversations repository.ConversationRepository,
	profiles repository.ProfileRepository,
	screener *moderation.Screener,
	bus events.Bus,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		profiles:      profiles,
		screener:      screener,
		bus:           bus,
		log:           log,
	}
}

// Submit stores a message in a conversation on behalf of the sender.
//
// The participant check and the insert are the operation; everything after
// the insert is best effort. A failed activity bump or sender lookup is
// logged and the submission still succeeds, returning the message without
// sender details in the latter case. Content is stored exactly as sent,
// it is data, never markup.
func (s *MessageService) Submit(ctx context.Context, conversationID, senderID uuid.UUID, content string) (domain.MessageWithSender, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.MessageWithSender{}, ripple_errors.ErrInvalidInput
	}

	if s.screener != nil {
		if flagged := s.screener.Screen(content); len(flagged) > 0 {
			s.log.InfoCtx(ctx, "message content flagged",
				zap.String("conversation_id", conversationID.String()),
				zap.Strings("terms", flagged))
			return domain.MessageWithSender{}, ripple_errors.ErrContentFlagged
		}
	}

	ok, err := s.conversations.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return domain.MessageWithSender{}, err
	}
	if !ok {
		return domain.MessageWithSender{}, ripple_errors.ErrForbidden
	}

	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Status:         domain.StatusSent,
		CreatedAt:      time.Now(),
	}
	if err := s.messages.Create(ctx, &msg); err != nil {
		return domain.MessageWithSender{}, err
	}

	if err := s.conversations.Touch(ctx, conversationID, msg.CreatedAt); err != nil {
		s.log.WarnCtx(ctx, "conversation activity bump failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
	}

	result := domain.MessageWithSender{Message: msg}
	if sender, err := s.profiles.GetByID(ctx, senderID); err != nil {
		s.log.WarnCtx(ctx, "sender profile lookup failed",
			zap.String("sender_id", senderID.String()),
			zap.Error(err))
	} else {
		result.Sender = &sender
	}

	if err := s.bus.Publish(ctx, events.Envelope{
		Type:           events.TypeMessageCreated,
		ConversationID: conversationID,
		ProfileID:      senderID,
		OccurredAt:     msg.CreatedAt,
		Message:        &msg,
	}); err != nil {
		s.log.WarnCtx(ctx, "message created event publish failed",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err))
	}

	return result, nil
}
