package handlers

import (
	"net/http"

	"deathcards-server/internal/store"
)

type createSetRequest struct {
	Detectives []int64 `json:"detectives"`
}

func (s *Server) createDetectiveSet(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	var req createSetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ds, err := s.Engine.CreateDetectiveSet(r.Context(), token, req.Detectives)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

type updateSetRequest struct {
	AddCard int64  `json:"add_card"`
	Token   string `json:"token"`
}

func (s *Server) updateDetectiveSet(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid set id"})
		return
	}
	var req updateSetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ds, err := s.Engine.AddDetectiveToSet(r.Context(), sid, req.AddCard, req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

type setSearchRequest struct {
	ID         *int64 `json:"id,omitempty"`
	GameID     *int64 `json:"game_id,omitempty"`
	Owner      *int64 `json:"owner,omitempty"`
	TurnPlayed *int   `json:"turn_played,omitempty"`
}

func (s *Server) searchDetectiveSets(w http.ResponseWriter, r *http.Request) {
	var req setSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sets, err := s.Store.Sets().Search(r.Context(), store.SetFilter{
		ID:         req.ID,
		GameID:     req.GameID,
		Owner:      req.Owner,
		TurnPlayed: req.TurnPlayed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) getDetectiveSet(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid set id"})
		return
	}
	ds, err := s.Store.Sets().Get(r.Context(), sid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Set no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

type setActionRequest struct {
	TargetPlayer *int64 `json:"target_player,omitempty"`
	TargetSecret *int64 `json:"target_secret,omitempty"`
	Token        string `json:"token"`
}

func (s *Server) detectiveSetAction(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid set id"})
		return
	}
	var req setActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.SetAction(r.Context(), sid, req.Token, req.TargetPlayer, req.TargetSecret); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, http.StatusOK)
}
