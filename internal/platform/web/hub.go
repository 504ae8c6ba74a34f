// Package web streams game snapshots to spectators over websockets. Each
// message is one msgpack-encoded core.Frame.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/arcade-core/internal/core"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// Hub fans frames out to connected spectators. Publish never blocks the
// game loop: a spectator whose buffer is full misses frames.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
	last   []byte
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Handler returns an http.Handler serving the hub at /watch.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/watch", h)
	return mux
}

// ServeHTTP upgrades a spectator connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("spectator upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	if h.last != nil {
		sub.send <- h.last
	}
	count := len(h.subs)
	h.mu.Unlock()
	h.logger.Info("spectator joined", "remote", r.RemoteAddr, "spectators", count)

	go h.writeLoop(sub)
	h.readLoop(sub)
}

// readLoop discards client messages and notices disconnects.
func (h *Hub) readLoop(sub *subscriber) {
	defer h.drop(sub)
	for {
		if _, _, err := sub.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.logger.Debug("spectator write failed", "err", err)
			h.drop(sub)
			return
		}
	}
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if ok {
		sub.close()
		h.logger.Debug("spectator left")
	}
}

// Publish encodes a frame and queues it for every spectator.
func (h *Hub) Publish(f core.Frame) error {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
		}
	}
	return nil
}

// Spectators returns the number of connected spectators.
func (h *Hub) Spectators() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subs
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()
	for sub := range subs {
		sub.close()
	}
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("spectator server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Decode parses a frame published by the hub.
func Decode(data []byte) (core.Frame, error) {
	var f core.Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}
