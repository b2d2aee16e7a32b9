package services

import (
	"context"
	"errors"
	"time"

	"ripple-chat/internal/domain"
	"ripple-chat/internal/events"
	"ripple-chat/internal/repository"
	ripple_errors "ripple-chat/pkg/errors"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type ConversationService struct {
	conversations repository.ConversationRepository
	profiles      repository.ProfileRepository
	messages      repository.MessageRepository
	reads         *ReadStateService
	bus           events.Bus
	log           *logger.Logger
}

func NewConversationService(
	conversations repository.ConversationRepository,
	profiles repository.ProfileRepository,
	messages repository.MessageRepository,
	reads *ReadStateService,
	bus events.Bus,
	log *logger.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		profiles:      profiles,
		messages:      messages,
		reads:         reads,
		bus:           bus,
		log:           log,
	}
}

// ResolveResult reports the conversation a direct-chat request landed on and
// whether it already existed.
type ResolveResult struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Existing       bool      `json:"existing"`
}

// ResolveOrCreateDirect returns the direct conversation between the two
// profiles, creating it when none exists. The lookup and the create are not
// atomic: two concurrent first messages between the same pair can each create
// a conversation, and both survive. Later calls resolve to whichever of them
// the participant lookup returns first.
//
// Participant rows are inserted one at a time with no rollback. A failure
// after the conversation row exists leaves a partial conversation behind;
// the caller sees the error and can retry, which creates a fresh one.
func (s *ConversationService) ResolveOrCreateDirect(ctx context.Context, callerID, otherID uuid.UUID) (ResolveResult, error) {
	if callerID == otherID {
		return ResolveResult{}, ripple_errors.ErrInvalidInput
	}

	if _, err := s.profiles.GetByID(ctx, otherID); err != nil {
		return ResolveResult{}, err
	}

	callerConvs, err := s.conversations.ConversationIDsFor(ctx, callerID)
	if err != nil {
		return ResolveResult{}, err
	}
	if len(callerConvs) > 0 {
		shared, err := s.conversations.ConversationIDsForIn(ctx, otherID, callerConvs)
		if err != nil {
			return ResolveResult{}, err
		}
		if len(shared) > 0 {
			return ResolveResult{ConversationID: shared[0], Existing: true}, nil
		}
	}

	now := time.Now()
	conv := &domain.Conversation{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return ResolveResult{}, err
	}

	for _, profileID := range []uuid.UUID{callerID, otherID} {
		participant := &domain.Participant{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			ProfileID:      profileID,
			CreatedAt:      now,
		}
		if err := s.conversations.AddParticipant(ctx, participant); err != nil {
			return ResolveResult{}, err
		}
	}

	if err := s.bus.Publish(ctx, events.Envelope{
		Type:           events.TypeConversationCreated,
		ConversationID: conv.ID,
		ProfileID:      callerID,
		OccurredAt:     now,
	}); err != nil {
		s.log.WarnCtx(ctx, "conversation created event publish failed",
			zap.String("conversation_id", conv.ID.String()),
			zap.Error(err))
	}

	return ResolveResult{ConversationID: conv.ID, Existing: false}, nil
}

// ConversationDetail is a conversation as listed in a user's inbox.
type ConversationDetail struct {
	ID           uuid.UUID        `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Participants []domain.Profile `json:"participants"`
	LastMessage  *domain.Message  `json:"last_message,omitempty"`
	UnreadCount  int64            `json:"unread_count"`
}

// ListForUser returns the user's conversations ordered by last activity, each
// with its participants, latest message and unread count.
func (s *ConversationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationDetail, error) {
	ids, err := s.conversations.ConversationIDsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []ConversationDetail{}, nil
	}

	convs, err := s.conversations.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]ConversationDetail, 0, len(convs))
	for _, conv := range convs {
		detail, err := s.buildDetail(ctx, conv, userID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// OpenConversation is the full view returned when a user opens a chat.
type OpenConversation struct {
	ConversationDetail
	Messages []domain.MessageWithSender `json:"messages"`
}

// Open loads a conversation for viewing and marks its unread messages read.
// Non-participants get ErrForbidden whether or not the conversation exists.
func (s *ConversationService) Open(ctx context.Context, conversationID, viewerID uuid.UUID) (OpenConversation, error) {
	ok, err := s.conversations.IsParticipant(ctx, conversationID, viewerID)
	if err != nil {
		return OpenConversation{}, err
	}
	if !ok {
		return OpenConversation{}, ripple_errors.ErrForbidden
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return OpenConversation{}, err
	}

	msgs, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return OpenConversation{}, err
	}

	if err := s.reads.MarkConversationRead(ctx, conversationID, viewerID); err != nil {
		s.log.WarnCtx(ctx, "mark conversation read failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
	}

	senderIDs := lo.Uniq(lo.Map(msgs, func(m domain.Message, _ int) uuid.UUID {
		return m.SenderID
	}))
	profilesByID, err := s.profilesByID(ctx, senderIDs)
	if err != nil {
		return OpenConversation{}, err
	}

	withSenders := make([]domain.MessageWithSender, 0, len(msgs))
	for _, msg := range msgs {
		sender, found := profilesByID[msg.SenderID]
		if !found {
			sender = domain.PlaceholderProfile(msg.SenderID)
		}
		withSenders = append(withSenders, domain.MessageWithSender{Message: msg, Sender: &sender})
	}

	detail, err := s.buildDetail(ctx, conv, viewerID)
	if err != nil {
		return OpenConversation{}, err
	}
	detail.UnreadCount = 0

	return OpenConversation{ConversationDetail: detail, Messages: withSenders}, nil
}

func (s *ConversationService) buildDetail(ctx context.Context, conv domain.Conversation, viewerID uuid.UUID) (ConversationDetail, error) {
	profileIDs := lo.Map(conv.Participants, func(p domain.Participant, _ int) uuid.UUID {
		return p.ProfileID
	})
	profiles, err := s.profiles.GetByIDs(ctx, profileIDs)
	if err != nil {
		return ConversationDetail{}, err
	}

	detail := ConversationDetail{
		ID:           conv.ID,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
		Participants: profiles,
	}

	last, err := s.messages.LatestMessage(ctx, conv.ID)
	if err == nil {
		detail.LastMessage = &last
	} else if !errors.Is(err, ripple_errors.ErrNotFound) {
		return ConversationDetail{}, err
	}

	unread, err := s.messages.UnreadCount(ctx, conv.ID, viewerID)
	if err != nil {
		return ConversationDetail{}, err
	}
	detail.UnreadCount = unread

	return detail, nil
}

func (s *ConversationService) profilesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Profile{}, nil
	}
	profiles, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return lo.KeyBy(profiles, func(p domain.Profile) uuid.UUID { return p.ID }), nil
}
