package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"geoportal/config"
	"geoportal/internal/database"
	"geoportal/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const busChannel = "geoportal:events"

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	UserID    int            `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out to in-process subscribers through Valkey pub/sub,
// so every instance sees events published by any of them.
type EventBus struct {
	client database.CacheClient
	log    logger.Logger

	mu          sync.RWMutex
	subscribers map[string]map[int]chan Event
	nextID      int

	cancel context.CancelFunc
	done   chan struct{}
}

func New(client database.CacheClient, config config.Config) *EventBus {
	bus := &EventBus{
		client:      client,
		log:         logger.New("events"),
		subscribers: make(map[string]map[int]chan Event),
		done:        make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.cancel = cancel
	go bus.receive(ctx)

	return bus
}

// Publish sends the event through Valkey; delivery to local subscribers
// happens on receipt, exactly once per instance.
func (b *EventBus) Publish(event Event) error {
	log := b.log.Function("Publish")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Do(ctx, b.client.B().Publish().
		Channel(busChannel).
		Message(string(payload)).
		Build()).Error(); err != nil {
		return log.Err("failed to publish event", err, "eventID", event.ID)
	}

	return nil
}

// Subscribe registers for events on a logical channel (e.g. "user:42").
// The returned function unsubscribes and closes the channel.
func (b *EventBus) Subscribe(channel string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[int]chan Event)
	}

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 16)
	b.subscribers[channel][id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subscribers[channel]; ok {
			if sub, ok := subs[id]; ok {
				delete(subs, id)
				close(sub)
			}
			if len(subs) == 0 {
				delete(b.subscribers, channel)
			}
		}
	}

	return ch, unsubscribe
}

func (b *EventBus) Close() error {
	b.cancel()
	<-b.done
	return nil
}

func (b *EventBus) receive(ctx context.Context) {
	defer close(b.done)
	log := b.log.Function("receive")

	err := b.client.Receive(ctx, b.client.B().Subscribe().Channel(busChannel).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to decode event", err)
				return
			}
			b.dispatch(event)
		})
	if err != nil && ctx.Err() == nil {
		log.Er("event subscription ended", err)
	}
}

func (b *EventBus) dispatch(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers[event.Channel] {
		select {
		case sub <- event:
		default:
			// Slow consumer; drop rather than block the receive loop.
		}
	}
}
