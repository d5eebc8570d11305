package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans accepted journey points out to websocket subscribers, locally
// and across instances via redis pub/sub.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	JourneyID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(journeyID string) *Client {
	client := &Client{
		JourneyID: journeyID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[journeyID] == nil {
		h.clients[journeyID] = map[*Client]struct{}{}
	}
	h.clients[journeyID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if journeyClients, ok := h.clients[client.JourneyID]; ok {
		delete(journeyClients, client)
		if len(journeyClients) == 0 {
			delete(h.clients, client.JourneyID)
		}
	}
	close(client.Send)
}

// Broadcast sends a payload to every subscriber of a journey. With redis,
// delivery rides the pattern subscription alone so local subscribers see
// each payload exactly once across instances; a failed publish falls back
// to direct local delivery.
func (h *Hub) Broadcast(journeyID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(journeyID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(journeyID, payload)
}

func (h *Hub) deliver(journeyID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[journeyID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "journeys:*:points")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(journeyIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(journeyID string) string {
	return "journeys:" + journeyID + ":points"
}

func journeyIDFromChannel(ch string) string {
	// journeys:{journey}:points
	const prefix = "journeys:"
	const suffix = ":points"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
