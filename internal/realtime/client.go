package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is a single websocket connection for one profile.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	profileID uuid.UUID
	clientID  string

	// convMu guards conversations. The map is read and grown from dispatch,
	// which the bus may call from several goroutines at once.
	convMu        sync.Mutex
	conversations map[uuid.UUID]bool
}

// ClientMessage is a command sent by the client over the socket.
type ClientMessage struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id,omitempty"`
	MessageID      uuid.UUID `json:"message_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, profileID uuid.UUID) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		profileID:     profileID,
		clientID:      uuid.NewString(),
		conversations: make(map[uuid.UUID]bool),
	}
}

func (c *Client) inConversation(id uuid.UUID) bool {
	c.convMu.Lock()
	defer c.convMu.Unlock()
	return c.conversations[id]
}

func (c *Client) trackConversation(id uuid.UUID) {
	c.convMu.Lock()
	c.conversations[id] = true
	c.convMu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if c.hub.presence != nil {
			if err := c.hub.presence.Heartbeat(context.Background(), c.profileID); err != nil {
				c.hub.log.Warnf("presence heartbeat failed: %v", err)
			}
		}
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Errorf("websocket unexpected close: %v", err)
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		if err := c.handleMessage(message); err != nil {
			c.hub.log.Errorf("websocket message handling failed: %v", err)
		}
	}
}

func (c *Client) handleMessage(message []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return err
	}

	ctx := context.Background()
	switch msg.Type {
	case "read":
		if msg.MessageID == uuid.Nil {
			return nil
		}
		return c.hub.reads.MarkMessageRead(ctx, msg.MessageID, c.profileID)
	case "read_all":
		if msg.ConversationID == uuid.Nil {
			return nil
		}
		return c.hub.reads.MarkConversationRead(ctx, msg.ConversationID, c.profileID)
	default:
		return nil
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
