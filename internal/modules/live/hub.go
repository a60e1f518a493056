package live

import (
	"sync"

	"roombooking/internal/modules/booking"

	"github.com/gorilla/websocket"
)

// boardMessage is the frame pushed to subscribers whenever a room's slot
// board changes.
type boardMessage struct {
	Type   string         `json:"type"`
	RoomID int64          `json:"room_id"`
	Date   string         `json:"date"`
	Slots  []booking.Slot `json:"slots"`
}

type subscriber struct {
	conn *websocket.Conn
	date string
}

// Hub tracks slot-board subscribers per room and fans refreshed boards out
// to them. Dead connections are pruned on write failure.
type Hub struct {
	mutex sync.RWMutex
	rooms map[int64]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int64]map[*subscriber]struct{}),
	}
}

func (h *Hub) Register(roomID int64, conn *websocket.Conn, date string) *subscriber {
	sub := &subscriber{conn: conn, date: date}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*subscriber]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unregister(roomID int64, sub *subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.removeLocked(roomID, sub)
}

func (h *Hub) removeLocked(roomID int64, sub *subscriber) {
	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, exists := subs[sub]; exists {
		_ = sub.conn.Close()
		delete(subs, sub)
	}
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
}

// BoardChanged implements booking.BoardNotifier. Only subscribers watching
// the changed date receive the refreshed board.
func (h *Hub) BoardChanged(roomID int64, date string, slots []booking.Slot) {
	msg := boardMessage{
		Type:   "slot_board",
		RoomID: roomID,
		Date:   date,
		Slots:  slots,
	}

	h.mutex.RLock()
	targets := make([]*subscriber, 0, len(h.rooms[roomID]))
	for sub := range h.rooms[roomID] {
		if sub.date == date {
			targets = append(targets, sub)
		}
	}
	h.mutex.RUnlock()

	var dead []*subscriber
	for _, sub := range targets {
		if err := sub.conn.WriteJSON(msg); err != nil {
			dead = append(dead, sub)
		}
	}

	if len(dead) > 0 {
		h.mutex.Lock()
		for _, sub := range dead {
			h.removeLocked(roomID, sub)
		}
		h.mutex.Unlock()
	}
}

func (h *Hub) SubscriberCount(roomID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.rooms[roomID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for roomID, subs := range h.rooms {
		for sub := range subs {
			_ = sub.conn.Close()
		}
		delete(h.rooms, roomID)
	}
}
