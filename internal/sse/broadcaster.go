package sse

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"github.com/Tydestiny/Incan-Gold/internal/game"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// Message is one Server-Sent Event
type Message struct {
	Event string
	Data  string
}

// Client is one open event stream. Messages arrive on C until the hub
// drops the client, at which point Gone is closed.
type Client struct {
	C        chan Message
	playerID string
	gone     chan struct{}
	once     sync.Once
}

// Gone is closed once the hub has dropped the client
func (c *Client) Gone() <-chan struct{} {
	return c.gone
}

func (c *Client) drop() {
	c.once.Do(func() { close(c.gone) })
}

// Hub fans session events out to the SSE clients of each room. Sends never
// block: a client whose buffer is full is dropped and has to reconnect.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// AddClient registers a new SSE client for a player in a room
func (h *Hub) AddClient(room, playerID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.rooms[room]
	if clients == nil {
		clients = make(map[*Client]struct{})
		h.rooms[room] = clients
	}
	// Warn if the same player has multiple SSE connections
	dup := 0
	for c := range clients {
		if c.playerID == playerID {
			dup++
		}
	}
	if dup > 0 {
		log.Printf("WARN: player %s opened %d additional SSE connection(s)", playerID, dup)
	}
	c := &Client{
		C:        make(chan Message, BufferSize),
		playerID: playerID,
		gone:     make(chan struct{}),
	}
	clients[c] = struct{}{}
	return c
}

// RemoveClient unregisters an SSE client
func (h *Hub) RemoveClient(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(room, c)
	if debug {
		log.Printf("sse: client removed from %s, %d left", room, len(h.rooms[room]))
	}
}

// remove drops c from room (lock held)
func (h *Hub) remove(room string, c *Client) {
	clients := h.rooms[room]
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
	c.drop()
}

// ClientCount returns the number of connected clients in a room
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// clients copies the client set so sends happen without holding the lock
func (h *Hub) clients(room string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		out = append(out, c)
	}
	return out
}

// send delivers msg without waiting. A full buffer drops the client.
func (h *Hub) send(room string, c *Client, msg Message) bool {
	select {
	case <-c.gone:
		return false
	default:
	}
	select {
	case c.C <- msg:
		return true
	default:
	}
	log.Printf("WARN: sse: client of player %s in %s fell behind on %s, dropping it", c.playerID, room, msg.Event)
	h.mu.Lock()
	h.remove(room, c)
	h.mu.Unlock()
	return false
}

// Broadcast sends a message to every client in a room
func (h *Hub) Broadcast(room, event, data string) {
	clients := h.clients(room)
	msg := Message{Event: event, Data: data}
	sent := 0
	for _, c := range clients {
		if h.send(room, c, msg) {
			sent++
		}
	}
	if debug {
		log.Printf("sse: event=%s room=%s sent to %d/%d clients", event, room, sent, len(clients))
	}
}

// SendTo delivers a message to one player's clients only
func (h *Hub) SendTo(room, playerID, event, data string) {
	msg := Message{Event: event, Data: data}
	for _, c := range h.clients(room) {
		if c.playerID == playerID {
			h.send(room, c, msg)
		}
	}
}

// Notify implements game.Notifier
func (h *Hub) Notify(ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("sse: encoding %s for %s: %v", ev.Kind, ev.Room, err)
		return
	}
	h.Broadcast(ev.Room, string(ev.Kind), string(data))
}

// ReportError sends the reason for a failed operation to the player that
// requested it
func (h *Hub) ReportError(room, playerID string, err error) {
	data, _ := json.Marshal(game.ErrorPayload{Reason: err.Error()})
	h.SendTo(room, playerID, EventError, string(data))
}

// CloseRoom tells every client the room is gone and forgets them
func (h *Hub) CloseRoom(room string) {
	h.Broadcast(room, EventRoomClosed, `{"room":"`+room+`"}`)
	h.mu.Lock()
	delete(h.rooms, room)
	h.mu.Unlock()
}
