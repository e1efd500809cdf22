package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types
const (
	EventSnapshot     = "snapshot"
	EventSessionStart = "session_start"
	EventSessionStop  = "session_stop"
	EventTableUpdate  = "table_update"
	EventConfigUpdate = "config_update"
	EventMonitorError = "monitor_error"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub menampung semua client monitor (operator, admin, display)
// yang menerima update occupancy secara real-time.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// ClientCount mengembalikan jumlah client yang sedang terhubung
func ClientCount() int {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	return len(floorHub.clients)
}

// BroadcastSnapshot -> snapshot occupancy berkala untuk semua client
func BroadcastSnapshot(data interface{}) {
	broadcast(Message{
		Event: EventSnapshot,
		Data:  data,
	})
}

// BroadcastSessionStart -> sesi baru dimulai pada satu meja
func BroadcastSessionStart(data interface{}) {
	broadcast(Message{
		Event: EventSessionStart,
		Data:  data,
	})
}

// BroadcastSessionStop -> sesi selesai, termasuk rincian biaya
func BroadcastSessionStop(data interface{}) {
	broadcast(Message{
		Event: EventSessionStop,
		Data:  data,
	})
}

// BroadcastConfigUpdate -> konfigurasi bisnis berubah
func BroadcastConfigUpdate(data interface{}) {
	broadcast(Message{
		Event: EventConfigUpdate,
		Data:  data,
	})
}

// BroadcastMonitorError -> error internal dari monitor, feed tetap jalan
func BroadcastMonitorError(message string) {
	broadcast(Message{
		Event: EventMonitorError,
		Data:  message,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
