/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/empire/games/empire"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 8
)

// UpdateMessage is the only thing ever pushed to viewers. It carries no game
// state; clients refetch the projection when they see it.
type UpdateMessage struct {
	Type string `json:"type"` // "game_updated"
	Code string `json:"code"`
}

type Client struct {
	conn *websocket.Conn
	send chan UpdateMessage
	code string
}

// Fanout tracks the websocket viewers of every game and pokes them when the
// game changes. It satisfies empire.Notifier.
type Fanout struct {
	cfg *Config

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

var _ empire.Notifier = (*Fanout)(nil)

func newFanout(cfg *Config) *Fanout {
	return &Fanout{
		cfg:   cfg,
		rooms: make(map[string]map[*Client]bool),
	}
}

func (f *Fanout) register(c *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[c.code]
	if !ok {
		room = make(map[*Client]bool)
		f.rooms[c.code] = room
	}
	room[c] = true
}

// unregister drops c and closes its send channel, once.
func (f *Fanout) unregister(c *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dropLocked(c)
}

func (f *Fanout) dropLocked(c *Client) {
	room, ok := f.rooms[c.code]
	if !ok || !room[c] {
		return
	}

	delete(room, c)
	close(c.send)

	if len(room) == 0 {
		delete(f.rooms, c.code)
	}
}

// Notify queues an update for every viewer of code without blocking. Viewers
// whose buffer is full are disconnected; they will refetch on reconnect.
func (f *Fanout) Notify(code string) {
	msg := UpdateMessage{Type: "game_updated", Code: code}

	var slow []*Client

	f.mu.RLock()
	for c := range f.rooms[code] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	f.mu.RUnlock()

	for _, c := range slow {
		logf(f.cfg, "GAMES: Dropping slow viewer of %s", code)
		f.unregister(c)
	}
}

// Subscribers returns how many viewers are watching code.
func (f *Fanout) Subscribers(code string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.rooms[code])
}

// Close disconnects every viewer of code.
func (f *Fanout) Close(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for c := range f.rooms[code] {
		f.dropLocked(c)
	}
}

// CloseAll disconnects every viewer of every game.
func (f *Fanout) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, room := range f.rooms {
		for c := range room {
			f.dropLocked(c)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS subscribes the caller to updates for :code.
func serveWS(cfg *Config, registry *empire.Registry, f *Fanout) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		session, err := registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "GAMES: Websocket upgrade for %s failed: %v", session.Code(), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan UpdateMessage, wsSendBuffer),
			code: session.Code(),
		}

		f.register(client)
		logf(cfg, "GAMES: Viewer %s connected to %s", realIP(r), client.code)

		go client.writePump()
		client.readPump(f)

		logf(cfg, "GAMES: Viewer %s disconnected from %s", realIP(r), client.code)
	}
}

// readPump discards anything the viewer sends and notices when it leaves.
func (c *Client) readPump(f *Fanout) {
	defer func() {
		f.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
