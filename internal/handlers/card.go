package handlers

import (
	"net/http"

	"deathcards-server/internal/game"
	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r, "cid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid card id"})
		return
	}
	c, err := s.Store.Cards().Get(r.Context(), cid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No se encontro la carta"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type discardCardsRequest struct {
	CardIDs       []int64 `json:"cids"`
	TurnDiscarded int     `json:"turn_discarded"`
	Token         string  `json:"token"`
}

func (s *Server) discardCards(w http.ResponseWriter, r *http.Request) {
	var req discardCardsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cards, err := s.Engine.DiscardCards(r.Context(), req.CardIDs, req.TurnDiscarded, req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

type takeDraftCardRequest struct {
	Owner *int64 `json:"owner"`
	Token string `json:"token"`
}

func (s *Server) takeDraftCard(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r, "cid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid card id"})
		return
	}
	var req takeDraftCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Owner == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Se debe indicar el dueño de la carta"})
		return
	}
	card, err := s.Engine.TakeDraftCard(r.Context(), cid, *req.Owner, req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type cardSearchRequest struct {
	ID                   *int64  `json:"id,omitempty"`
	GameID               *int64  `json:"game_id,omitempty"`
	Owner                *int64  `json:"owner,omitempty"`
	OwnerIsNull          *bool   `json:"owner_is_null,omitempty"`
	Name                 *string `json:"name,omitempty"`
	TurnDiscarded        *int    `json:"turn_discarded,omitempty"`
	TurnDiscardedIsNull  *bool   `json:"turn_discarded_is_null,omitempty"`
	DiscardedOrderIsNull *bool   `json:"discarded_order_is_null,omitempty"`
	SetID                *int64  `json:"set_id,omitempty"`
	SetIDIsNull          *bool   `json:"set_id_is_null,omitempty"`
	Limit                int     `json:"limit,omitempty"`
	Offset               int     `json:"offset,omitempty"`
}

func (s *Server) searchCards(w http.ResponseWriter, r *http.Request) {
	var req cardSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cards, err := s.Store.Cards().Search(r.Context(), store.CardFilter{
		ID:                   req.ID,
		GameID:               req.GameID,
		Owner:                req.Owner,
		OwnerIsNull:          req.OwnerIsNull,
		Name:                 req.Name,
		TurnDiscarded:        req.TurnDiscarded,
		TurnDiscardedIsNull:  req.TurnDiscardedIsNull,
		DiscardedOrderIsNull: req.DiscardedOrderIsNull,
		SetID:                req.SetID,
		SetIDIsNull:          req.SetIDIsNull,
		Sort:                 store.CardSortPileOrderDesc,
		Limit:                req.Limit,
		Offset:               req.Offset,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) playCard(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r, "cid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid card id"})
		return
	}
	token := r.URL.Query().Get("token")
	var t game.Targets
	if !decodeBody(w, r, &t) {
		return
	}
	if t.Order != "" && t.Order != models.OrderClockwise && t.Order != models.OrderAntiClockwise {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid player_order"})
		return
	}
	if err := s.Engine.PlayCard(r.Context(), cid, token, t); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, http.StatusOK)
}

type cancelActionRequest struct {
	NotSoFast int64  `json:"not_so_fast"`
	Token     string `json:"token"`
}

func (s *Server) cancelAction(w http.ResponseWriter, r *http.Request) {
	eid, err := pathID(r, "eid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid event id"})
		return
	}
	var req cancelActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.SubmitCancel(r.Context(), eid, req.NotSoFast, req.Token); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, http.StatusOK)
}
