package debugger

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// StepEvent is broadcast to every connected debugger UI shell after
// each Next/Run/Previous call.
type StepEvent struct {
	SessionID string `json:"session_id"`
	IP        int    `json:"ip"`
	Halted    bool   `json:"halted"`
	ExitCode  int    `json:"exit_code,omitempty"`
	State     string `json:"state"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server streams a single Debugger's step events to any number of
// connected websocket clients, so an external debugger UI shell can
// watch a run live instead of polling State().
type Server struct {
	d       *Debugger
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewServer wraps d for websocket broadcast.
func NewServer(d *Debugger) *Server {
	return &Server{d: d, clients: make(map[*websocket.Conn]bool)}
}

// HandleWebSocket upgrades an HTTP request to a websocket connection
// and registers it to receive subsequent step events.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[error] websocket upgrade: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the debugger's current status to every connected
// client, dropping any connection that fails to accept the write.
func (s *Server) Broadcast() {
	event := StepEvent{
		SessionID: s.d.SessionID.String(),
		IP:        s.d.IP(),
		Halted:    s.d.Halted(),
		ExitCode:  s.d.ExitCode(),
		State:     s.d.State(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[error] marshal step event: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// ClientCount reports how many debugger UI shells are currently
// connected.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
