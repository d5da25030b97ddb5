// Package ws fans game and lobby notifications out to websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"deathcards-server/internal/models"
)

const writeTimeout = 5 * time.Second

type conn struct {
	id       string
	ws       *websocket.Conn
	playerID *int64
}

// Hub tracks connected clients per game plus a lobby audience, and implements
// store.Notifier so every store mutation reaches the right sockets.
type Hub struct {
	mu    sync.Mutex
	games map[int64]map[string]*conn
	lobby map[string]*conn

	log *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		games: make(map[int64]map[string]*conn),
		lobby: make(map[string]*conn),
		log:   log,
	}
}

// AddGameConn registers a socket to a game channel and returns the
// connection id for later removal. playerID may be nil for spectators.
func (h *Hub) AddGameConn(gameID int64, ws *websocket.Conn, playerID *int64) string {
	c := &conn{id: uuid.NewString(), ws: ws, playerID: playerID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[string]*conn)
	}
	h.games[gameID][c.id] = c
	return c.id
}

func (h *Hub) RemoveGameConn(gameID int64, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games[gameID], connID)
	if len(h.games[gameID]) == 0 {
		delete(h.games, gameID)
	}
}

// AddLobbyConn registers a socket to the lobby channel.
func (h *Hub) AddLobbyConn(ws *websocket.Conn) string {
	c := &conn{id: uuid.NewString(), ws: ws}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lobby[c.id] = c
	return c.id
}

func (h *Hub) RemoveLobbyConn(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lobby, connID)
}

// NotifyGame sends msg to every socket on the game's channel. Messages with
// DestUser set go only to that player's sockets.
func (h *Hub) NotifyGame(gameID int64, msg models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warnf("failed to marshal game message: %v", err)
		return
	}
	h.mu.Lock()
	targets := make([]*conn, 0, len(h.games[gameID]))
	for _, c := range h.games[gameID] {
		if msg.DestUser != nil {
			if c.playerID == nil || *c.playerID != *msg.DestUser {
				continue
			}
		}
		targets = append(targets, c)
	}
	h.mu.Unlock()
	for _, c := range targets {
		go h.write(c, data)
	}
}

// NotifyLobby sends msg to every lobby socket.
func (h *Hub) NotifyLobby(msg models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warnf("failed to marshal lobby message: %v", err)
		return
	}
	h.mu.Lock()
	targets := make([]*conn, 0, len(h.lobby))
	for _, c := range h.lobby {
		targets = append(targets, c)
	}
	h.mu.Unlock()
	for _, c := range targets {
		go h.write(c, data)
	}
}

func (h *Hub) write(c *conn, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			h.log.Debugf("ws write to %s failed: %v", c.id, err)
		}
	}
}
