package realtime

import (
	"context"
	"testing"
	"time"

	"ripple-chat/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishMessageCreated(t *testing.T, bus events.Bus, convID, senderID uuid.UUID) {
	t.Helper()
	require.NoError(t, bus.Publish(context.Background(), events.Envelope{
		Type:           events.TypeMessageCreated,
		ConversationID: convID,
		ProfileID:      senderID,
		OccurredAt:     time.Now(),
	}))
}

func TestInboxCountsIncomingMessages(t *testing.T) {
	bus := events.NewMemoryBus()
	viewer := uuid.New()
	other := uuid.New()
	convID := uuid.New()

	inbox, err := OpenInboxView(context.Background(), bus, viewer, nil, []uuid.UUID{convID})
	require.NoError(t, err)
	defer inbox.Close()

	publishMessageCreated(t, bus, convID, other)
	publishMessageCreated(t, bus, convID, other)
	// Own messages never count as unread.
	publishMessageCreated(t, bus, convID, viewer)

	assert.Equal(t, int64(2), inbox.UnreadCount(convID))
	assert.Equal(t, int64(2), inbox.TotalUnread())
}

func TestInboxSeedsFromSnapshot(t *testing.T) {
	bus := events.NewMemoryBus()
	viewer := uuid.New()
	other := uuid.New()
	convID := uuid.New()

	inbox, err := OpenInboxView(context.Background(), bus, viewer,
		map[uuid.UUID]int64{convID: 3}, []uuid.UUID{convID})
	require.NoError(t, err)
	defer inbox.Close()

	publishMessageCreated(t, bus, convID, other)

	assert.Equal(t, int64(4), inbox.UnreadCount(convID))
}

func TestInboxResetsOnOwnReadReceipt(t *testing.T) {
	bus := events.NewMemoryBus()
	viewer := uuid.New()
	other := uuid.New()
	convID := uuid.New()

	inbox, err := OpenInboxView(context.Background(), bus, viewer, nil, []uuid.UUID{convID})
	require.NoError(t, err)
	defer inbox.Close()

	publishMessageCreated(t, bus, convID, other)
	publishMessageCreated(t, bus, convID, other)

	// The other participant reading the thread changes nothing for us.
	require.NoError(t, bus.Publish(context.Background(), events.Envelope{
		Type: events.TypeReceiptRead, ConversationID: convID, ProfileID: other, OccurredAt: time.Now(),
	}))
	assert.Equal(t, int64(2), inbox.UnreadCount(convID))

	require.NoError(t, bus.Publish(context.Background(), events.Envelope{
		Type: events.TypeReceiptRead, ConversationID: convID, ProfileID: viewer, OccurredAt: time.Now(),
	}))
	assert.Equal(t, int64(0), inbox.UnreadCount(convID))
}

func TestInboxIgnoresUntrackedConversations(t *testing.T) {
	bus := events.NewMemoryBus()
	viewer := uuid.New()
	other := uuid.New()
	tracked := uuid.New()
	untracked := uuid.New()

	inbox, err := OpenInboxView(context.Background(), bus, viewer, nil, []uuid.UUID{tracked})
	require.NoError(t, err)
	defer inbox.Close()

	publishMessageCreated(t, bus, untracked, other)
	assert.Equal(t, int64(0), inbox.TotalUnread())

	inbox.Track(untracked)
	publishMessageCreated(t, bus, untracked, other)
	assert.Equal(t, int64(1), inbox.UnreadCount(untracked))
}
