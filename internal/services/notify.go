package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/dftasks/dftasks-backend/internal/database"
)

// PendingEventChannel is the Redis channel new-pending-task events are
// published on. Publishing and fan-out go through Redis so every
// instance sees events regardless of which one runs the mailbox
// listener.
const PendingEventChannel = "notify:pending"

// PendingTaskEvent is the payload broadcast to admin dashboards when
// the mailbox listener persists a new pending task.
type PendingTaskEvent struct {
	Type            string    `json:"type"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Address         string    `json:"address,omitempty"`
	ApartmentNumber string    `json:"apartmentNumber,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NotifyConn is the minimal interface a WebSocket connection must
// satisfy for fan-out.
type NotifyConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// notifyClient serializes writes to one connection: gorilla allows a
// single concurrent writer, and fan-out runs one goroutine per event.
type notifyClient struct {
	mu   sync.Mutex
	conn NotifyConn
}

func (c *notifyClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type notifyHub struct {
	mu    sync.RWMutex
	conns map[string]*notifyClient
}

var (
	hub           = &notifyHub{conns: make(map[string]*notifyClient)}
	notifyStarted sync.Once
)

// RegisterNotifyConn adds an admin dashboard connection to the hub.
func RegisterNotifyConn(id string, conn NotifyConn) {
	hub.mu.Lock()
	hub.conns[id] = &notifyClient{conn: conn}
	hub.mu.Unlock()
}

// UnregisterNotifyConn removes a connection from the hub.
func UnregisterNotifyConn(id string) {
	hub.mu.Lock()
	delete(hub.conns, id)
	hub.mu.Unlock()
}

// PublishPendingTaskEvent publishes an event to Redis. Best-effort:
// callers log and continue on error.
func PublishPendingTaskEvent(ctx context.Context, event PendingTaskEvent) error {
	if database.RedisClient == nil {
		return nil
	}
	if event.Type == "" {
		event.Type = "pending_task.created"
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, PendingEventChannel, data).Err()
}

// StartNotifySubscriber ensures a single shared Redis listener per instance.
func StartNotifySubscriber(ctx context.Context) {
	notifyStarted.Do(func() {
		go runNotifySubscriber(ctx)
	})
}

func runNotifySubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; notify subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, PendingEventChannel)
			defer pubsub.Close()

			log.Printf("✅ Notify subscriber started (channel: %s)", PendingEventChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Notify subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event PendingTaskEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal pending task event: %v", err)
					continue
				}

				fanOutPendingEvent(event)
			}
		}()
	}
}

// fanOutPendingEvent sends an event to every connected dashboard.
func fanOutPendingEvent(event PendingTaskEvent) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for _, client := range hub.conns {
		// Non-blocking best-effort send.
		go func(c *notifyClient) {
			if err := c.writeJSON(event); err != nil {
				log.Printf("error writing pending task event to websocket: %v", err)
			}
		}(client)
	}
}
