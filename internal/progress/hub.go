// Package progress is an optional, ambient WebSocket broadcaster for
// human-observable run narration. One Hub manages a single active
// connection — a run has one operator watching it, not a fleet of
// subscribers — and re-homes broadcast traffic to whichever client last
// connected.
package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub manages one active connection.
type Hub struct {
	client     *Client // nil when nothing is connected
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	h := &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	go h.run()
	return h
}

// Client is one active WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Message is the wire envelope every broadcast event is wrapped in.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			if h.client != nil {
				close(h.client.send)
			}
			h.client = client
			h.mutex.Unlock()
			log.Printf("[progress] client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if h.client == client {
				close(h.client.send)
				h.client = nil
				log.Printf("[progress] client disconnected")
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			if h.client != nil {
				select {
				case h.client.send <- message:
				default:
					log.Printf("[progress] client send buffer full, disconnecting")
					close(h.client.send)
					h.client = nil
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Broadcast wraps data in a typed Message and queues it for the active
// client, if any; it is a no-op when nothing is connected.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.mutex.RLock()
	connected := h.client != nil
	h.mutex.RUnlock()
	if !connected {
		return
	}

	payload, err := json.Marshal(Message{Type: eventType, Data: data, Timestamp: time.Now().Unix()})
	if err != nil {
		log.Printf("[progress] failed to marshal event: %v", err)
		return
	}
	h.broadcast <- payload
}

// ListenAndServe serves the upgrade endpoint at addr and blocks until it
// fails; callers run it in its own goroutine.
func (h *Hub) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/progress", h.serveWS)
	return http.ListenAndServe(addr, mux)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[progress] upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		c.conn.WriteMessage(websocket.TextMessage, message)
	}
}
