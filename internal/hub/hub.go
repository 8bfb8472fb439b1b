// Package hub pushes change notifications to connected views over WebSocket.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Views only send control frames.
	maxMessageSize = 512
)

const (
	msgRegister   = "register"
	msgUnregister = "unregister"
	msgBroadcast  = "broadcast"
)

// RevalidateMessage is what views receive after a committed change.
type RevalidateMessage struct {
	Type string `json:"type"`
	domain.ChangeEvent
}

type hubMessage struct {
	Type   string
	Client *Client
	Data   []byte
}

// Hub tracks connected views and broadcasts revalidation messages to them.
type Hub struct {
	messageChan chan hubMessage

	clients   map[*Client]bool
	clientsMu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		messageChan: make(chan hubMessage, 512),
		clients:     make(map[*Client]bool),
	}
}

// Run processes hub messages until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info("Hub is shutting down...")
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case msgRegister:
				h.registerClient(msg.Client)
			case msgUnregister:
				h.unregisterClient(msg.Client)
			case msgBroadcast:
				h.broadcast(msg.Data)
			default:
				log.Warnf("Hub: Received unknown message type: %s", msg.Type)
			}
		}
	}
}

// Invalidate tells every connected view that event happened. It satisfies
// service.Invalidator and is also fed by the Redis change subscription.
func (h *Hub) Invalidate(_ context.Context, event domain.ChangeEvent) error {
	data, err := json.Marshal(RevalidateMessage{Type: "revalidate", ChangeEvent: event})
	if err != nil {
		return fmt.Errorf("hub: failed to marshal revalidate message: %w", err)
	}
	if !h.queue(hubMessage{Type: msgBroadcast, Data: data}) {
		return fmt.Errorf("hub: message queue full, dropped %s event for post %d", event.Kind, event.PostID)
	}
	return nil
}

// HandleChange adapts Invalidate to the Redis subscriber callback.
func (h *Hub) HandleChange(event domain.ChangeEvent) {
	if err := h.Invalidate(context.Background(), event); err != nil {
		logrus.WithError(err).Warn("Hub: failed to forward change event")
	}
}

// Register queues c for registration.
func (h *Hub) Register(c *Client) bool {
	return h.queue(hubMessage{Type: msgRegister, Client: c})
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) queue(msg hubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()
	logrus.WithField("remote", client.Remote()).Info("Client registered to Hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	logrus.WithField("remote", client.Remote()).Info("Client unregistered from Hub")
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// broadcast never blocks on a slow client; its message is dropped instead.
func (h *Hub) broadcast(message []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	logrus.WithFields(logrus.Fields{
		"message_size":    len(message),
		"recipient_count": len(h.clients),
	}).Debug("Broadcasting message to clients")

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			logrus.WithField("remote", client.Remote()).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}
