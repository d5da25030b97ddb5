// Package game implements the rules engine: the turn state machine, card
// effects, detective sets, the not-so-fast cancellation window and secret
// reveals. All state lives behind the store; the engine only orchestrates.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"deathcards-server/internal/cache"
	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// DefaultCancelWindow is how long a not-so-fast window stays open, and
// DefaultCancelTick is how often the countdown is broadcast. Tests shrink
// both.
const (
	DefaultCancelWindow = 6 * time.Second
	DefaultCancelTick   = time.Second
)

type Engine struct {
	Store    store.Store
	Notifier store.Notifier
	Log      *logrus.Logger
	History  *cache.History

	CancelWindow time.Duration
	CancelTick   time.Duration

	now func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(st store.Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		Store:        st,
		Notifier:     store.NopNotifier{},
		Log:          log,
		CancelWindow: DefaultCancelWindow,
		CancelTick:   DefaultCancelTick,
		now:          time.Now,
		locks:        make(map[int64]*sync.Mutex),
	}
}

// gameLock returns the per-game mutex that serializes cancel submissions.
func (e *Engine) gameLock(gameID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[gameID] = l
	}
	return l
}

// chat appends a line to the game feed. Feed failures are logged, never
// returned: they must not abort a rule that already ran.
func (e *Engine) chat(ctx context.Context, gameID int64, content string) {
	c := &models.Chat{GameID: gameID, Content: content, Timestamp: e.now()}
	if err := e.Store.Chats().Create(ctx, c); err != nil {
		e.Log.WithError(err).WithField("game_id", gameID).Warn("failed to append chat line")
	}
}

// publishHistory mirrors an action into the redis history queue, when wired.
func (e *Engine) publishHistory(ctx context.Context, gameID int64, turn int, playerID *int64, action string) {
	if e.History == nil {
		return
	}
	rec := cache.ActionRecord{GameID: gameID, Turn: turn, PlayerID: playerID, Action: action}
	if err := e.History.Publish(ctx, rec); err != nil {
		e.Log.WithError(err).WithField("game_id", gameID).Warn("failed to publish history record")
	}
}

// nextDiscardedOrder returns the next free position on the discard pile.
func (e *Engine) nextDiscardedOrder(ctx context.Context, gameID int64) (int, error) {
	no := false
	cards, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:               &gameID,
		DiscardedOrderIsNull: &no,
		Sort:                 store.CardSortDiscardedOrderDesc,
		Limit:                1,
	})
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, nil
	}
	return *cards[0].DiscardedOrder + 1, nil
}

// discardUpdate builds the write that moves a card onto the discard pile.
func discardUpdate(turn, order int) store.CardUpdate {
	return store.CardUpdate{
		TurnDiscarded:  &turn,
		DiscardedOrder: &order,
		ClearOwner:     true,
	}
}

// discardCard drops one card on the pile at the next free position.
func (e *Engine) discardCard(ctx context.Context, card *models.Card, turn int, clearTurnPlayed bool) error {
	order, err := e.nextDiscardedOrder(ctx, card.GameID)
	if err != nil {
		return err
	}
	up := discardUpdate(turn, order)
	up.ClearTurnPlayed = clearTurnPlayed
	_, err = e.Store.Cards().Update(ctx, card.ID, up)
	return err
}

// finalizeTurn parks the game waiting for the active player to end the turn.
func (e *Engine) finalizeTurn(ctx context.Context, gameID int64) error {
	st := models.StatusFinalizeTurn
	_, err := e.Store.Games().Update(ctx, gameID, store.GameUpdate{Status: &st, ClearPlayerInAction: true})
	return err
}

// setPhase moves the game to a waiting phase with the given player in action.
func (e *Engine) setPhase(ctx context.Context, gameID int64, st models.GameStatus, playerInAction *int64) error {
	up := store.GameUpdate{Status: &st}
	if playerInAction == nil {
		up.ClearPlayerInAction = true
	} else {
		up.PlayerInAction = playerInAction
	}
	_, err := e.Store.Games().Update(ctx, gameID, up)
	return err
}

// playersInGame returns every seat of a game.
func (e *Engine) playersInGame(ctx context.Context, gameID int64) ([]*models.Player, error) {
	return e.Store.Players().Search(ctx, store.PlayerFilter{GameID: &gameID})
}

// playerByToken resolves a seat token; Unauthorized when unknown.
func (e *Engine) playerByToken(ctx context.Context, token string) (*models.Player, error) {
	p, err := e.Store.Players().GetByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUnauthorized("Token invalido")
	}
	return p, err
}
