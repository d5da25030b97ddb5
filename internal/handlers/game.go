package handlers

import (
	"net/http"

	"deathcards-server/internal/game"
	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

type gameWithPlayer struct {
	Game   *models.Game    `json:"game"`
	Player playerWithToken `json:"player"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var p game.CreateGameParams
	if !decodeBody(w, r, &p) {
		return
	}
	g, player, err := s.Engine.CreateGame(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameWithPlayer{Game: g, Player: withToken(player)})
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	gid, err := pathID(r, "gid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid game id"})
		return
	}
	g, err := s.Store.Games().Get(r.Context(), gid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Juego no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type updateGameRequest struct {
	Status      models.GameStatus `json:"status,omitempty"`
	CurrentTurn int               `json:"current_turn,omitempty"`
	Token       string            `json:"token"`
}

// updateGame covers the two lifecycle transitions the seat owner drives:
// starting a waiting game and ending the current turn.
func (s *Server) updateGame(w http.ResponseWriter, r *http.Request) {
	gid, err := pathID(r, "gid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid game id"})
		return
	}
	var req updateGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch {
	case req.Status == models.StatusStarted:
		g, err := s.Engine.StartGame(r.Context(), gid, req.Token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	case req.CurrentTurn != 0:
		g, err := s.Engine.EndTurn(r.Context(), gid, req.CurrentTurn, req.Token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Actualizacion de partida invalida"})
	}
}

type deleteGameRequest struct {
	Token string `json:"token"`
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	gid, err := pathID(r, "gid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid game id"})
		return
	}
	var req deleteGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.DeleteGame(r.Context(), gid, req.Token); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gid)
}

type gameSearchRequest struct {
	ID     *int64             `json:"id,omitempty"`
	Status *models.GameStatus `json:"status,omitempty"`
}

func (s *Server) searchGames(w http.ResponseWriter, r *http.Request) {
	var req gameSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	games, err := s.Store.Games().Search(r.Context(), store.GameFilter{ID: req.ID, Status: req.Status})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}
