package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/landfall/sim/internal/world"
)

const readTimeout = 60 * time.Second

// Session is one observer connection. Network I/O runs in dedicated
// goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn *websocket.Conn
	IP   string

	OutQueue chan []byte // writer goroutine reads from here
	outBuf   [][]byte    // buffered frames, flushed by ObserverSystem (game loop only)

	writeTimeout time.Duration
	commands     *world.CommandQueue
	onDead       func(uint64)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id uint64, outSize int, writeTimeout time.Duration, commands *world.CommandQueue, onDead func(uint64), log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		IP:           conn.RemoteAddr().String(),
		OutQueue:     make(chan []byte, outSize),
		writeTimeout: writeTimeout,
		commands:     commands,
		onDead:       onDead,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a frame. It is not written until FlushOutput.
// Called only from the game loop goroutine, so outBuf needs no lock.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("out queue full, dropping slow observer")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close shuts the session down once and reports it dead.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		s.conn.Close()
		if s.onDead != nil {
			s.onDead(s.ID)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop decodes inbound input messages and queues them as commands.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		cmd, err := DecodeInput(msg)
		if err != nil {
			s.log.Debug("bad input message", zap.Error(err))
			continue
		}
		if !s.commands.Push(cmd) {
			s.log.Warn("command queue full, input dropped")
		}
	}
}

// writeLoop writes queued frames as text messages.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// SessionStore tracks connected sessions. Game loop only.
type SessionStore struct {
	sessions map[uint64]*Session
	order    []uint64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint64]*Session)}
}

func (st *SessionStore) Add(s *Session) {
	if _, ok := st.sessions[s.ID]; ok {
		return
	}
	st.sessions[s.ID] = s
	st.order = append(st.order, s.ID)
}

func (st *SessionStore) Remove(id uint64) {
	if _, ok := st.sessions[id]; !ok {
		return
	}
	delete(st.sessions, id)
	for i, v := range st.order {
		if v == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

func (st *SessionStore) Len() int { return len(st.sessions) }

// RemoveClosed drops every closed session and returns their ids. It catches
// sessions whose dead notice was lost or arrived before the session itself.
func (st *SessionStore) RemoveClosed() []uint64 {
	var gone []uint64
	for _, id := range st.order {
		if st.sessions[id].IsClosed() {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		st.Remove(id)
	}
	return gone
}

// Each visits sessions in connection order.
func (st *SessionStore) Each(fn func(*Session)) {
	for _, id := range st.order {
		fn(st.sessions[id])
	}
}
