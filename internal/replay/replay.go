// Package replay serves a live simulation's event stream to browser
// clients over a websocket, the way niceyeti-tabular/server pushes
// training updates to an open page. Unlike that single-client server,
// Broadcaster fans one event.Bus out to any number of connected
// viewers, dropping an event for a client whose send buffer is full
// rather than waiting on it.
package replay

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/logging"
)

const (
	writeWait      = 5 * time.Second
	clientSendSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Broadcaster implements event.Sink, forwarding every emitted event to
// every currently connected websocket client as JSON.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan event.Event
}

// NewBroadcaster returns an empty Broadcaster ready to accept
// connections via ServeHTTP.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*client]struct{})}
}

// Write fans ev out to every connected client without blocking on any
// single slow or stalled websocket.
func (b *Broadcaster) Write(ev event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- ev:
		default:
			logging.Warn("replay", "dropping event for slow client")
		}
	}
	return nil
}

// Close disconnects every connected client.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		close(c.send)
		delete(b.clients, c)
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and registers it as a
// replay viewer until the connection drops.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("replay", "upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan event.Event, clientSendSize)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	go b.pump(c)
}

func (b *Broadcaster) pump(c *client) {
	defer func() {
		b.mu.Lock()
		delete(b.clients, c)
		b.mu.Unlock()
		c.conn.Close()
	}()

	for ev := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
