package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and broadcasts activity
// notifications to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Notify broadcasts an activity message to every connected client. It never
// blocks the caller; if the hub's queue is full the notification is dropped.
func (h *Hub) Notify(action string, payload interface{}) {
	data := Message{Action: action, Payload: payload}.Encode()
	if data == nil {
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Warn().Str("action", action).Msg("Dropping websocket notification, broadcast queue full")
	}
}
