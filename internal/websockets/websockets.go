package websockets

import (
	"fmt"

	"geoportal/internal/events"
	"geoportal/internal/logger"
	. "geoportal/internal/models"

	"github.com/gofiber/websocket/v2"
)

// Manager streams request lifecycle events to the owning user's connected
// clients.
type Manager struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func New(eventBus *events.EventBus) (*Manager, error) {
	if eventBus == nil {
		return nil, fmt.Errorf("event bus is required")
	}
	return &Manager{
		eventBus: eventBus,
		log:      logger.New("websockets"),
	}, nil
}

// HandleWebSocket serves one connection. The session middleware runs before
// the upgrade, so an authenticated user is already in Locals.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	user, ok := c.Locals("user").(User)
	if !ok || user.ID == 0 {
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
		_ = c.Close()
		return
	}

	channel := fmt.Sprintf("user:%d", user.ID)
	eventCh, unsubscribe := m.eventBus.Subscribe(channel)
	defer unsubscribe()

	log.Info("Websocket connected", "userID", user.ID)

	// Reader goroutine exists only to observe the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				log.Warn("failed to write event, closing", "userID", user.ID, "error", err)
				return
			}
		case <-closed:
			log.Info("Websocket disconnected", "userID", user.ID)
			return
		}
	}
}
