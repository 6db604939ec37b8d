package file

import (
	"sync"

	"github.com/gorilla/websocket"
)

const (
	EventFileAdded   = "file.added"
	EventFileDeleted = "file.deleted"
)

// Event is pushed to folder subscribers so a displayed file listing can
// extend itself without a full reload.
type Event struct {
	Type   string      `json:"type"`
	File   *StoredFile `json:"file,omitempty"`
	FileID string      `json:"file_id,omitempty"`
}

// Hub fans folder events out to websocket subscribers. A folder can
// have any number of open listings (tabs, devices).
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(folderID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[folderID] == nil {
		h.subs[folderID] = make(map[*websocket.Conn]bool)
	}
	h.subs[folderID][conn] = true
}

func (h *Hub) Unregister(folderID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.subs[folderID]; ok {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.subs, folderID)
		}
	}
}

// Publish sends the event to every subscriber of the folder. Dead
// connections are dropped on write failure.
func (h *Hub) Publish(folderID string, ev Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[folderID]))
	for conn := range h.subs[folderID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.Unregister(folderID, conn)
		}
	}
}

func (h *Hub) SubscriberCount(folderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[folderID])
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for folderID, conns := range h.subs {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subs, folderID)
	}
}
