package handlers

import (
	"net/http"

	"deathcards-server/internal/game"
	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid player id"})
		return
	}
	p, err := s.Store.Players().Get(r.Context(), pid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Jugador no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) joinGame(w http.ResponseWriter, r *http.Request) {
	gid, err := pathID(r, "gid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid game id"})
		return
	}
	var p game.JoinGameParams
	if !decodeBody(w, r, &p) {
		return
	}
	player, err := s.Engine.JoinGame(r.Context(), gid, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withToken(player))
}

// playerWithToken is the seat payload returned on create and join, the only
// responses that carry the session token.
type playerWithToken struct {
	ID             int64  `json:"id"`
	GameID         *int64 `json:"game_id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	SocialDisgrace bool   `json:"social_disgrace"`
	Position       *int   `json:"position"`
	Token          string `json:"token"`
}

func withToken(p *models.Player) playerWithToken {
	return playerWithToken{
		ID:             p.ID,
		GameID:         p.GameID,
		Name:           p.Name,
		Avatar:         p.Avatar,
		SocialDisgrace: p.SocialDisgrace,
		Position:       p.Position,
		Token:          p.Token,
	}
}

type leaveGameRequest struct {
	Token string `json:"token"`
}

func (s *Server) leaveGame(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid player id"})
		return
	}
	var req leaveGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.LeaveGame(r.Context(), pid, req.Token); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pid)
}

type playerSearchRequest struct {
	ID       *int64  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	GameID   *int64  `json:"game_id,omitempty"`
	Position *int    `json:"position,omitempty"`
}

func (s *Server) searchPlayers(w http.ResponseWriter, r *http.Request) {
	var req playerSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	players, err := s.Store.Players().Search(r.Context(), store.PlayerFilter{
		ID:       req.ID,
		Name:     req.Name,
		GameID:   req.GameID,
		Position: req.Position,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}
