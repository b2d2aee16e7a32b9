package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"ripple-chat/internal/events"
	"ripple-chat/internal/redis"
	"ripple-chat/internal/repository"
	"ripple-chat/internal/services"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxConnectionsPerUser = 10

// Hub maintains the set of active websocket clients and fans feed events out
// to them. Conversation-scoped events reach only clients that participate in
// the conversation; presence events reach everyone connected.
type Hub struct {
	clients    map[uuid.UUID]map[string]*Client
	register   chan *Client
	unregister chan *Client

	bus           events.Bus
	conversations repository.ConversationRepository
	reads         *services.ReadStateService
	presence      *redis.PresenceStore
	log           *logger.Logger

	mu   sync.RWMutex
	sub  events.Subscription
	stop chan struct{}
}

func NewHub(
	bus events.Bus,
	conversations repository.ConversationRepository,
	reads *services.ReadStateService,
	presence *redis.PresenceStore,
	log *logger.Logger,
) *Hub {
	return &Hub{
		clients:       make(map[uuid.UUID]map[string]*Client),
		register:      make(chan *Client, 256),
		unregister:    make(chan *Client, 256),
		bus:           bus,
		conversations: conversations,
		reads:         reads,
		presence:      presence,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Run processes registrations and feed events until Stop is called.
func (h *Hub) Run() {
	sub, err := h.bus.SubscribeAll(context.Background(), h.dispatch)
	if err != nil {
		h.log.Errorf("hub feed subscription failed: %v", err)
	} else {
		h.sub = sub
	}

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case <-h.stop:
			if h.sub != nil {
				h.sub.Close()
			}
			return
		}
	}
}

// Stop shuts the hub down and closes every client connection.
func (h *Hub) Stop() {
	close(h.stop)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for _, client := range conns {
			close(client.send)
		}
	}
	h.clients = make(map[uuid.UUID]map[string]*Client)
}

func (h *Hub) handleRegister(client *Client) {
	ctx := context.Background()

	convIDs, err := h.conversations.ConversationIDsFor(ctx, client.profileID)
	if err != nil {
		h.log.Errorf("loading conversations for client failed: %v", err)
	}
	for _, id := range convIDs {
		client.trackConversation(id)
	}

	h.mu.Lock()
	if h.clients[client.profileID] == nil {
		h.clients[client.profileID] = make(map[string]*Client)
	}
	if len(h.clients[client.profileID]) >= maxConnectionsPerUser {
		// Evict one existing connection to make room.
		for id, old := range h.clients[client.profileID] {
			close(old.send)
			delete(h.clients[client.profileID], id)
			break
		}
	}
	h.clients[client.profileID][client.clientID] = client
	h.mu.Unlock()

	if h.presence != nil {
		if err := h.presence.Connected(ctx, client.profileID); err != nil {
			h.log.WarnCtx(ctx, "presence connect failed",
				zap.String("profile_id", client.profileID.String()),
				zap.Error(err))
		}
	}
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.profileID]
	if ok {
		if _, live := conns[client.clientID]; live {
			delete(conns, client.clientID)
			close(client.send)
		}
		if len(conns) == 0 {
			delete(h.clients, client.profileID)
		}
	}
	h.mu.Unlock()

	if h.presence != nil {
		ctx := context.Background()
		if err := h.presence.Disconnected(ctx, client.profileID); err != nil {
			h.log.WarnCtx(ctx, "presence disconnect failed",
				zap.String("profile_id", client.profileID.String()),
				zap.Error(err))
		}
	}
}

// dispatch routes one feed envelope to the clients that should see it.
func (h *Hub) dispatch(ctx context.Context, env events.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.clients {
		for _, client := range conns {
			if env.ConversationID != uuid.Nil && !client.inConversation(env.ConversationID) {
				if env.Type != events.TypeConversationCreated {
					continue
				}
				// New conversations are pushed so the membership map can
				// catch up without a reconnect.
				if !h.isParticipant(ctx, env.ConversationID, client.profileID) {
					continue
				}
				client.trackConversation(env.ConversationID)
			}
			select {
			case client.send <- payload:
				if env.Type == events.TypeMessageCreated && env.Message != nil && client.profileID != env.ProfileID {
					go h.markDelivered(env.Message.ID, client.profileID)
				}
			default:
				// Slow consumer, drop the event rather than block the hub.
			}
		}
	}
	return nil
}

func (h *Hub) markDelivered(messageID, recipientID uuid.UUID) {
	if err := h.reads.MarkMessageDelivered(context.Background(), messageID, recipientID); err != nil {
		h.log.Warnf("mark message delivered failed: %v", err)
	}
}

func (h *Hub) isParticipant(ctx context.Context, conversationID, profileID uuid.UUID) bool {
	ok, err := h.conversations.IsParticipant(ctx, conversationID, profileID)
	if err != nil {
		h.log.Warnf("participant check failed during dispatch: %v", err)
		return false
	}
	return ok
}
