package handlers

import (
	"net/http"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func (s *Server) getSecret(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid secret id"})
		return
	}
	secret, err := s.Store.Secrets().Get(r.Context(), sid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Secreto no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, secret)
}

type secretSearchRequest struct {
	ID       *int64 `json:"id,omitempty"`
	GameID   *int64 `json:"game_id,omitempty"`
	Owner    *int64 `json:"owner,omitempty"`
	Revealed *bool  `json:"revealed,omitempty"`
}

func (s *Server) searchSecrets(w http.ResponseWriter, r *http.Request) {
	var req secretSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	secrets, err := s.Store.Secrets().Search(r.Context(), store.SecretFilter{
		ID:       req.ID,
		GameID:   req.GameID,
		Owner:    req.Owner,
		Revealed: req.Revealed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secrets)
}

type eventSearchRequest struct {
	GameID          *int64  `json:"game_id,omitempty"`
	TurnPlayed      *int    `json:"turn_played,omitempty"`
	PlayerID        *int64  `json:"player_id,omitempty"`
	Action          *string `json:"action,omitempty"`
	CompletedAction *bool   `json:"completed_action,omitempty"`
	TargetCard      *int64  `json:"target_card,omitempty"`
}

func (s *Server) searchEvents(w http.ResponseWriter, r *http.Request) {
	var req eventSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	events, err := s.Store.Events().Search(r.Context(), store.EventFilter{
		GameID:          req.GameID,
		TurnPlayed:      req.TurnPlayed,
		PlayerID:        req.PlayerID,
		Action:          req.Action,
		CompletedAction: req.CompletedAction,
		TargetCard:      req.TargetCard,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type chatMessageRequest struct {
	GameID  int64  `json:"game_id"`
	OwnerID int64  `json:"owner_id"`
	Content string `json:"content"`
}

func (s *Server) postChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := s.Engine.PostChatMessage(r.Context(), req.GameID, req.OwnerID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) getChatHistory(w http.ResponseWriter, r *http.Request) {
	gid, err := pathID(r, "gid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid game id"})
		return
	}
	msgs, err := s.Engine.ChatHistory(r.Context(), gid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []*models.Chat{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
