package realtime

import (
	"context"
	"sync"

	"ripple-chat/internal/domain"
	"ripple-chat/internal/events"
	"ripple-chat/internal/repository"
	"ripple-chat/internal/services"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationView merges an initial message load with the live feed for one
// open conversation. New messages arriving on the feed are enriched with
// their sender profile, deduplicated against what is already shown and
// appended in arrival order. Messages from other participants are marked
// read as a side effect, since the viewer has the conversation open.
type ConversationView struct {
	conversationID uuid.UUID
	viewerID       uuid.UUID

	profiles repository.ProfileRepository
	reads    *services.ReadStateService
	log      *logger.Logger

	mu       sync.Mutex
	messages []domain.MessageWithSender
	seen     map[uuid.UUID]bool

	sub events.Subscription
}

// OpenConversationView loads the conversation through the given service and
// starts merging live events into it. The caller must Close the view when the
// conversation is no longer on screen.
func OpenConversationView(
	ctx context.Context,
	conversations *services.ConversationService,
	profiles repository.ProfileRepository,
	reads *services.ReadStateService,
	bus events.Bus,
	log *logger.Logger,
	conversationID, viewerID uuid.UUID,
) (*ConversationView, error) {
	opened, err := conversations.Open(ctx, conversationID, viewerID)
	if err != nil {
		return nil, err
	}

	v := &ConversationView{
		conversationID: conversationID,
		viewerID:       viewerID,
		profiles:       profiles,
		reads:          reads,
		log:            log,
		messages:       make([]domain.MessageWithSender, 0, len(opened.Messages)),
		seen:           make(map[uuid.UUID]bool, len(opened.Messages)),
	}
	for _, msg := range opened.Messages {
		v.messages = append(v.messages, msg)
		v.seen[msg.ID] = true
	}

	sub, err := bus.Subscribe(ctx, events.ConversationChannel(conversationID), v.handle)
	if err != nil {
		return nil, err
	}
	v.sub = sub
	return v, nil
}

func (v *ConversationView) handle(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeMessageCreated || env.Message == nil {
		return nil
	}
	msg := *env.Message

	enriched := domain.MessageWithSender{Message: msg}
	sender, err := v.profiles.GetByID(ctx, msg.SenderID)
	if err != nil {
		v.log.WarnCtx(ctx, "sender profile lookup failed on live message",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err))
		placeholder := domain.PlaceholderProfile(msg.SenderID)
		enriched.Sender = &placeholder
	} else {
		enriched.Sender = &sender
	}

	v.mu.Lock()
	if v.seen[msg.ID] {
		v.mu.Unlock()
		return nil
	}
	v.seen[msg.ID] = true
	v.messages = append(v.messages, enriched)
	v.mu.Unlock()

	// The viewer is looking at the conversation, so incoming messages are
	// read immediately. Fire and forget; a miss self-heals on next open.
	if msg.SenderID != v.viewerID {
		go func() {
			if err := v.reads.MarkMessageRead(context.Background(), msg.ID, v.viewerID); err != nil {
				v.log.Warnf("mark live message read failed: %v", err)
			}
		}()
	}
	return nil
}

// AppendLocal shows a just-submitted message immediately without waiting for
// its feed echo. The echo is then dropped by the dedupe check.
func (v *ConversationView) AppendLocal(msg domain.MessageWithSender) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[msg.ID] {
		return
	}
	v.seen[msg.ID] = true
	v.messages = append(v.messages, msg)
}

// Messages returns a snapshot of the merged message list, oldest first.
func (v *ConversationView) Messages() []domain.MessageWithSender {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.MessageWithSender, len(v.messages))
	copy(out, v.messages)
	return out
}

// Close stops merging live events into the view.
func (v *ConversationView) Close() error {
	if v.sub == nil {
		return nil
	}
	return v.sub.Close()
}
