package game

import (
	"context"
	"time"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// notSoFastStatus opens a cancellation window for the action identified by
// cardID and blocks until it closes. Every cancel submission rearms the game
// timestamp, restarting the countdown, and flips the parity of the
// canceled_times counter; an odd count when the window finally expires means
// the action is canceled. The countdown is observed through the store so
// cancel submissions arriving on other requests are picked up.
func (e *Engine) notSoFastStatus(ctx context.Context, game *models.Game, cardID int64) (bool, error) {
	events := e.Store.Events()

	counterEvent := &models.Event{
		GameID:     game.ID,
		TurnPlayed: game.CurrentTurn,
		Action:     models.ActionCanceledTimes,
		TargetCard: new(int64),
	}
	if err := events.Create(ctx, counterEvent); err != nil {
		return false, err
	}
	if err := events.Create(ctx, &models.Event{
		GameID:     game.ID,
		TurnPlayed: game.CurrentTurn,
		Action:     models.ActionToCancel,
	}); err != nil {
		return false, err
	}

	st := models.StatusWaitingForCancelAction
	ts := e.now()
	game, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st, Timestamp: &ts})
	if err != nil {
		return false, err
	}

	e.Log.WithFields(map[string]any{
		"game_id": game.ID,
		"card_id": cardID,
	}).Debug("cancellation window opened")

	var lastTimestamp *time.Time
	for !equalTimes(game.Timestamp, lastTimestamp) {
		lastTimestamp = game.Timestamp
		wakeUp := lastTimestamp.Add(e.CancelWindow)

		for {
			secondsLeft := wakeUp.Sub(e.now())
			if secondsLeft < 0 {
				secondsLeft = 0
			}
			game, err = e.Store.Games().Get(ctx, game.ID)
			if err != nil {
				return false, err
			}
			if secondsLeft <= 0 || !equalTimes(game.Timestamp, lastTimestamp) {
				break
			}

			e.Notifier.NotifyGame(game.ID, models.GameMessage("timer", "update_seconds", game.ID,
				map[string]int{"remaining_seconds": int(secondsLeft.Seconds())}))

			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(e.CancelTick):
			}
		}
	}

	counterEvent, err = events.Get(ctx, counterEvent.ID)
	if err != nil {
		return false, err
	}
	return *counterEvent.TargetCard%2 != 0, nil
}

func equalTimes(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// SubmitCancel plays a not-so-fast card against the window's pending action.
// eventID is the to_cancel event the client is answering; submissions against
// anything but the latest open one are rejected, so two racing cancels cannot
// both count.
func (e *Engine) SubmitCancel(ctx context.Context, eventID, notSoFastID int64, token string) error {
	events := e.Store.Events()

	cancelEvent, err := events.Get(ctx, eventID)
	if err != nil {
		return errNotFound("No se puede cancelar la accion: No se encontró el evento")
	}

	notSoFast, err := e.Store.Cards().Get(ctx, notSoFastID)
	if err != nil {
		return errNotFound("No se puede cancelar la accion: Carta no encontrada")
	}

	game, err := e.Store.Games().Get(ctx, cancelEvent.GameID)
	if err != nil {
		return err
	}

	if game.Status != models.StatusWaitingForCancelAction {
		return errInvalid("No se puede cancelar la accion: Estado de partida invalido")
	}
	if cancelEvent.TurnPlayed != game.CurrentTurn {
		return errInvalid("No se puede cancelar la accion: Turno invalido")
	}

	if notSoFast.Owner == nil {
		return errUnauthorized("No se puede cancelar la accion: Token inválido")
	}
	player, err := e.Store.Players().Get(ctx, *notSoFast.Owner)
	if err != nil {
		return err
	}
	if player.Token != token {
		return errUnauthorized("No se puede cancelar la accion: Token inválido")
	}

	// The latest-check and the counter bump must not interleave with another
	// cancel on the same game.
	lock := e.gameLock(game.ID)
	lock.Lock()
	defer lock.Unlock()

	toCancel := models.ActionToCancel
	notCompleted := false
	lastEvents, err := events.Search(ctx, store.EventFilter{
		GameID:          &game.ID,
		TurnPlayed:      &game.CurrentTurn,
		Action:          &toCancel,
		CompletedAction: &notCompleted,
		Sort:            store.EventSortIDDesc,
		Limit:           1,
	})
	if err != nil {
		return err
	}

	canceledTimes := models.ActionCanceledTimes
	counterEvents, err := events.Search(ctx, store.EventFilter{
		GameID:     &game.ID,
		TurnPlayed: &game.CurrentTurn,
		Action:     &canceledTimes,
		Sort:       store.EventSortIDDesc,
		Limit:      1,
	})
	if err != nil {
		return err
	}
	if len(counterEvents) == 0 {
		return errInvalid("No se puede cancelar la accion: Estado de partida invalido")
	}

	if len(lastEvents) == 0 || lastEvents[0].ID != cancelEvent.ID {
		return errInvalid("No se puede cancelar la accion: No es la ultima accion cancelable")
	}

	// Rearm the countdown, close the answered event and bump the parity
	// counter.
	ts := e.now()
	if _, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Timestamp: &ts}); err != nil {
		return err
	}
	completed := true
	if _, err := events.Update(ctx, cancelEvent.ID, store.EventUpdate{CompletedAction: &completed}); err != nil {
		return err
	}
	bumped := *counterEvents[0].TargetCard + 1
	if _, err := events.Update(ctx, counterEvents[0].ID, store.EventUpdate{TargetCard: &bumped}); err != nil {
		return err
	}

	e.chat(ctx, game.ID, "Se jugó un NOT SO FAST para cancelar la acción")

	// A fresh to_cancel event lets the next not-so-fast answer this one.
	nsfID := notSoFast.ID
	if err := events.Create(ctx, &models.Event{
		GameID:     game.ID,
		TurnPlayed: game.CurrentTurn,
		Action:     models.ActionToCancel,
		TargetCard: &nsfID,
	}); err != nil {
		return err
	}

	nsfContent := "nsf"
	_, err = e.Store.Cards().Update(ctx, notSoFast.ID, store.CardUpdate{ClearOwner: true, Content: &nsfContent})
	return err
}
