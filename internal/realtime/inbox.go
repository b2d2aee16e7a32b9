package realtime

import (
	"context"
	"sync"

	"ripple-chat/internal/events"

	"github.com/google/uuid"
)

// InboxView keeps live unread counters for the conversations a user is not
// currently looking at. A message from someone else bumps that conversation's
// counter; the viewer's own read receipt resets it.
type InboxView struct {
	viewerID uuid.UUID

	mu      sync.Mutex
	unread  map[uuid.UUID]int64
	members map[uuid.UUID]bool

	sub events.Subscription
}

// OpenInboxView seeds counters from the given snapshot and tracks changes
// from the feed. conversationIDs limits tracking to conversations the viewer
// participates in.
func OpenInboxView(ctx context.Context, bus events.Bus, viewerID uuid.UUID, seed map[uuid.UUID]int64, conversationIDs []uuid.UUID) (*InboxView, error) {
	v := &InboxView{
		viewerID: viewerID,
		unread:   make(map[uuid.UUID]int64, len(seed)),
		members:  make(map[uuid.UUID]bool, len(conversationIDs)),
	}
	for id, count := range seed {
		v.unread[id] = count
	}
	for _, id := range conversationIDs {
		v.members[id] = true
	}

	sub, err := bus.SubscribeAll(ctx, v.handle)
	if err != nil {
		return nil, err
	}
	v.sub = sub
	return v, nil
}

func (v *InboxView) handle(ctx context.Context, env events.Envelope) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.members[env.ConversationID] {
		return nil
	}

	switch env.Type {
	case events.TypeMessageCreated:
		if env.ProfileID != v.viewerID {
			v.unread[env.ConversationID]++
		}
	case events.TypeReceiptRead:
		if env.ProfileID == v.viewerID {
			v.unread[env.ConversationID] = 0
		}
	}
	return nil
}

// Track adds a newly created conversation to the view.
func (v *InboxView) Track(conversationID uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.members[conversationID] = true
}

// UnreadCount returns the live counter for one conversation.
func (v *InboxView) UnreadCount(conversationID uuid.UUID) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unread[conversationID]
}

// TotalUnread sums the counters across all tracked conversations.
func (v *InboxView) TotalUnread() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	var total int64
	for _, count := range v.unread {
		total += count
	}
	return total
}

// Close stops tracking feed events.
func (v *InboxView) Close() error {
	if v.sub == nil {
		return nil
	}
	return v.sub.Close()
}
