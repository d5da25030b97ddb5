package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"deathcards-server/internal/middleware"
	"deathcards-server/internal/models"
)

// websocketHandler upgrades the single push channel the client keeps open.
// With a valid seat token the socket joins its game's channel; without one it
// joins the lobby. Messages sent by clients are relayed to their dest_game
// channel.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Log.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")
	middleware.LogWebSocketConnect(s.Log, r.RemoteAddr, r.URL.Path)

	if token != "" {
		player, err := s.Store.Players().GetByToken(r.Context(), token)
		if err != nil || player.GameID == nil {
			c.Close(websocket.StatusPolicyViolation, "unknown token")
			return
		}
		gameID := *player.GameID
		connID := s.Hub.AddGameConn(gameID, c, &player.ID)
		defer s.Hub.RemoveGameConn(gameID, connID)
		err = s.relayLoop(r.Context(), c)
		middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, err)
		return
	}

	connID := s.Hub.AddLobbyConn(c)
	defer s.Hub.RemoveLobbyConn(connID)
	err = s.relayLoop(r.Context(), c)
	middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, err)
}

// relayLoop reads messages until the peer goes away, forwarding any that name
// a destination game.
func (s *Server) relayLoop(ctx context.Context, c *websocket.Conn) error {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		var msg models.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Log.Debugf("dropping malformed ws message: %v", err)
			continue
		}
		if msg.DestGame != nil {
			s.Hub.NotifyGame(*msg.DestGame, msg)
		} else {
			s.Hub.NotifyLobby(msg)
		}
	}
}
