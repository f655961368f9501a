package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Event is pushed to every subscriber of a hotel.
type Event struct {
	Type    string    `json:"type"`
	HotelID uuid.UUID `json:"hotel_id"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// connection is a single websocket client. hotels is guarded by Hub.mu.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	hotels map[uuid.UUID]bool
	may    func(uuid.UUID) bool
}

// Hub fans booking events out to websocket clients subscribed to a hotel.
// Publish never blocks: a client whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	log         *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		connections: make(map[*connection]struct{}),
		log:         log,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Publish implements the booking event publisher.
func (h *Hub) Publish(hotelID uuid.UUID, eventType string, payload any) {
	data, err := json.Marshal(&Event{Type: eventType, HotelID: hotelID, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		h.log.WithError(err).WithField("event", eventType).Error("feed: marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.hotels[hotelID] {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.WithFields(logrus.Fields{"user_id": c.userID, "hotel_id": hotelID}).Warn("feed: client too slow, event dropped")
		}
	}
}

// Subscribers counts the clients currently subscribed to hotelID.
func (h *Hub) Subscribers(hotelID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if c.hotels[hotelID] {
			n++
		}
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}

// serve registers conn and runs its read and write loops. It blocks until
// the client goes away. may decides which hotels the client can follow.
func (h *Hub) serve(conn *websocket.Conn, userID int64, initial []uuid.UUID, may func(uuid.UUID) bool) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hotels: make(map[uuid.UUID]bool, len(initial)),
		may:    may,
	}
	for _, id := range initial {
		c.hotels[id] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd struct {
			Type    string    `json:"type"`
			HotelID uuid.UUID `json:"hotel_id"`
		}
		if err := json.Unmarshal(msg, &cmd); err != nil {
			continue
		}

		switch cmd.Type {
		case "subscribe":
			if !c.may(cmd.HotelID) {
				continue
			}
			h.mu.Lock()
			c.hotels[cmd.HotelID] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.hotels, cmd.HotelID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
