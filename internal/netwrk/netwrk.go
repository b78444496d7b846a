// Package netwrk carries game messages between participants and the lobby
// over WebSocket connections.
package netwrk

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Participant is one connected client as seen by rooms and the lobby.
// Send never blocks: frames that cannot be queued are dropped.
type Participant interface {
	ID() string
	Send(Message)
}

// Handler receives decoded messages and disconnects. Calls for a single
// participant are made from one goroutine, in arrival order.
type Handler interface {
	HandleMessage(p Participant, m Message)
	Disconnect(p Participant)
}

// Server upgrades HTTP requests to WebSocket participants.
type Server struct {
	handler  Handler
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[string]*Conn
	closed bool
	wg     sync.WaitGroup
}

func NewServer(h Handler, logger *slog.Logger) *Server {
	return &Server{
		handler: h,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{SubprotocolJSON, SubprotocolProto},
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*Conn),
	}
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if s.isClosed() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	codec := CodecFor(ws.Subprotocol())
	c := &Conn{
		id:     uuid.NewString(),
		ws:     ws,
		codec:  codec,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: s.logger,
	}
	c.logger = s.logger.With(slog.String("participant", c.id))

	// Registration and wg.Add share the lock with Close, so Close either
	// waits for this connection or it is never started.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server is shutting down"),
			time.Now().Add(time.Second))
		ws.Close()
		return
	}
	s.conns[c.id] = c
	s.wg.Add(2)
	s.mu.Unlock()

	c.logger.Info("participant connected", slog.String("remote", r.RemoteAddr), slog.String("codec", codec.Subprotocol()))

	go func() {
		defer s.wg.Done()
		c.writePump()
	}()
	go func() {
		defer s.wg.Done()
		s.readPump(c)
	}()
}

// Count is the number of open connections.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close drops every connection and waits for their pumps to finish. Each
// participant goes through the normal disconnect path. Connections arriving
// after Close are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for _, c := range s.conns {
		c.close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) readPump(c *Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, c.id)
		s.mu.Unlock()
		c.close()
		s.handler.Disconnect(c)
		c.logger.Info("participant disconnected")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("set read deadline", slog.Any("error", err))
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, b, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}

		msg, err := c.codec.Decode(b)
		if errors.Is(err, ErrUnknownType) {
			continue
		}
		if err != nil {
			c.logger.Warn("malformed message ignored", slog.Any("error", err))
			continue
		}
		s.handler.HandleMessage(c, msg)
	}
}

// Conn is a WebSocket participant.
type Conn struct {
	id     string
	ws     *websocket.Conn
	codec  Codec
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Send(m Message) {
	b, err := c.codec.Encode(m)
	if err != nil {
		c.logger.Error("encode message", slog.String("type", m.Type), slog.Any("error", err))
		return
	}
	select {
	case <-c.done:
	case c.send <- b:
	default:
		c.logger.Warn("send buffer full, dropping message", slog.String("type", m.Type))
	}
}

func (c *Conn) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		c.ws.Close()
	}()

	for {
		select {
		case b := <-c.send:
			if err := c.write(c.codec.FrameType(), b); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(time.Second))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Conn) write(frameType int, b []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(frameType, b)
}
