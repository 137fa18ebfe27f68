package server

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/x402x/gives/logger"
)

// DonationEvent is pushed to page subscribers when a donation settles.
type DonationEvent struct {
	PayTo   string `json:"-"`
	TxHash  string `json:"txHash"`
	Network string `json:"network"`
	Amount  string `json:"amount"`
}

// Client is one WebSocket subscriber, keyed by the recipient address it
// watches.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Address string
}

// Hub fans donation events out to the subscribers of each recipient page.
type Hub struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan DonationEvent
	log        logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan DonationEvent),
		log:        log,
	}
}

// Run owns the subscriber map; all mutation happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.clients[client.Address] == nil {
				h.clients[client.Address] = make(map[*Client]bool)
			}
			h.clients[client.Address][client] = true
			h.log.Debug("donation subscriber registered", map[string]any{
				"address": client.Address,
			})

		case client := <-h.Unregister:
			if subs, ok := h.clients[client.Address]; ok && subs[client] {
				delete(subs, client)
				close(client.Send)
				if len(subs) == 0 {
					delete(h.clients, client.Address)
				}
			}

		case event := <-h.Broadcast:
			subs := h.clients[event.PayTo]
			if len(subs) == 0 {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error("failed to marshal donation event", map[string]any{
					"error": err.Error(),
				})
				continue
			}
			for client := range subs {
				select {
				case client.Send <- payload:
				default:
					close(client.Send)
					delete(subs, client)
				}
			}
		}
	}
}

// WritePump drains a client's send queue onto its connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// ReadPump discards inbound frames and unregisters on disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
