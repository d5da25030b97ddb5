// Package handlers exposes the rules engine over HTTP and websocket. The
// endpoints mirror the client's REST surface; errors carry user-facing
// Spanish messages with the status the rule violation maps to.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"deathcards-server/internal/game"
	"deathcards-server/internal/middleware"
	"deathcards-server/internal/store"
	"deathcards-server/internal/ws"
)

type Server struct {
	Engine *game.Engine
	Store  store.Store
	Hub    *ws.Hub
	Log    *logrus.Logger
}

func NewServer(e *game.Engine, st store.Store, hub *ws.Hub, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{Engine: e, Store: st, Hub: hub, Log: log}
}

// Routes builds the full route table wrapped in request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/game/", s.createGame)
	mux.HandleFunc("GET /api/game/{gid}", s.getGame)
	mux.HandleFunc("PATCH /api/game/{gid}", s.updateGame)
	mux.HandleFunc("DELETE /api/game/{gid}", s.deleteGame)
	mux.HandleFunc("POST /api/game/search", s.searchGames)

	mux.HandleFunc("GET /api/player/{pid}", s.getPlayer)
	mux.HandleFunc("POST /api/player/{gid}", s.joinGame)
	mux.HandleFunc("DELETE /api/player/{pid}", s.leaveGame)
	mux.HandleFunc("POST /api/player/search", s.searchPlayers)

	mux.HandleFunc("GET /api/card/{cid}", s.getCard)
	mux.HandleFunc("PATCH /api/card", s.discardCards)
	mux.HandleFunc("PATCH /api/card/{cid}", s.takeDraftCard)
	mux.HandleFunc("POST /api/card/search", s.searchCards)
	mux.HandleFunc("POST /api/card/play_card/{cid}", s.playCard)
	mux.HandleFunc("POST /api/card/cancel_action/{eid}", s.cancelAction)

	mux.HandleFunc("POST /api/detective_set/", s.createDetectiveSet)
	mux.HandleFunc("POST /api/detective_set/update/{sid}", s.updateDetectiveSet)
	mux.HandleFunc("POST /api/detective_set/search", s.searchDetectiveSets)
	mux.HandleFunc("GET /api/detective_set/{sid}", s.getDetectiveSet)
	mux.HandleFunc("POST /api/detective_set/{sid}", s.detectiveSetAction)

	mux.HandleFunc("GET /api/secret/{sid}", s.getSecret)
	mux.HandleFunc("POST /api/secret/search", s.searchSecrets)

	mux.HandleFunc("POST /api/event_table/search", s.searchEvents)

	mux.HandleFunc("POST /api/chat/", s.postChatMessage)
	mux.HandleFunc("GET /api/chat/{gid}", s.getChatHistory)

	mux.HandleFunc("/ws/monolithic", s.websocketHandler)

	return middleware.LogMiddleware(s.Log)(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine rule violations onto their HTTP status. Anything
// that is not a *game.Error is an internal failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ge *game.Error
	if errors.As(err, &ge) {
		writeJSON(w, statusFor(ge.Kind), map[string]string{"detail": ge.Msg})
		return
	}
	s.Log.WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
}

func statusFor(k game.Kind) int {
	switch k {
	case game.KindUnauthorized:
		return http.StatusUnauthorized
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindNotAcceptable:
		return http.StatusNotAcceptable
	case game.KindPrecondition:
		return http.StatusPreconditionFailed
	case game.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case game.KindPreconditionRequired:
		return http.StatusPreconditionRequired
	default:
		return http.StatusBadRequest
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid payload"})
		return false
	}
	return true
}
