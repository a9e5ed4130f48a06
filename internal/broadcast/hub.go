package broadcast

import (
	"crypto/rand"
	"net"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Session is one connected client's tracked state: its socket, a ULID
// identity for logs/metrics, the last self-reported ping, and the
// frame-skip bookkeeping the request/response protocol applies to
// high-latency clients sending crowded snapshots.
type Session struct {
	ID              string
	Conn            net.Conn
	PingMillis      int
	HighLatency     bool
	LastEntityCount int
	FrameCounter    int
	SkipFrames      bool
}

// Hub is the sync.Mutex-guarded session table. A producer-driven Loop
// never touches it; only session handlers register, unregister, and read
// from it.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	entropy  *ulid.MonotonicEntropy
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
	}
}

// Register creates a new Session for conn and adds it to the table.
func (h *Hub) Register(conn net.Conn) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entropy == nil {
		h.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id := ulid.MustNew(ulid.Now(), h.entropy).String()

	s := &Session{ID: id, Conn: conn}
	h.sessions[id] = s
	return s
}

// Unregister removes a Session from the table.
func (h *Hub) Unregister(s *Session) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.ID)
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
