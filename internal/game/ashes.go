package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// lookIntoTheAshes lets the player retrieve one of the last five discarded
// cards. The discard pile must be non-empty regardless of phase.
func (e *Engine) lookIntoTheAshes(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	no := false
	lastFiveDiscarded, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:               &card.GameID,
		DiscardedOrderIsNull: &no,
		Sort:                 store.CardSortDiscardedOrderDesc,
		Limit:                5,
	})
	if err != nil {
		return err
	}
	if len(lastFiveDiscarded) == 0 {
		return errPrecondition("No hay cartas en la pila de descarte, no se puede jugar")
	}

	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch {
	case card.TurnPlayed == nil && game.Status == models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta LOOK INTO THE ASHES", player.Name))

		canceled, err := e.notSoFastStatus(ctx, game, card.ID)
		if err != nil {
			return err
		}
		if canceled {
			if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
				return err
			}
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "Se canceló la carta LOOK INTO THE ASHES")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseDiscarded, &player.ID)

	case card.TurnPlayed != nil && game.Status == models.StatusWaitingForChooseDiscarded:
		if len(t.Cards) != 1 {
			return errInvalid("Cantidad erronea de cartas objetivos")
		}
		if *card.TurnPlayed != game.CurrentTurn {
			return errInvalid("No se puede relanzar una carta jugada")
		}

		targetCard, err := e.Store.Cards().Get(ctx, t.Cards[0])
		if err != nil {
			return errNotFound("Carta objetivo no existente")
		}
		if targetCard.GameID != card.GameID {
			return errInvalid("Carta no existente en esta partida")
		}
		found := false
		for _, c := range lastFiveDiscarded {
			if c.ID == targetCard.ID {
				found = true
				break
			}
		}
		if !found {
			return errInvalid("Solo se puede agarrar una de las 5 ultimas descartadas")
		}

		// Return the card fully to hand.
		empty := ""
		if _, err := e.Store.Cards().Update(ctx, targetCard.ID, store.CardUpdate{
			ClearTurnDiscarded:  true,
			ClearTurnPlayed:     true,
			ClearDiscardedOrder: true,
			Owner:               &player.ID,
			Content:             &empty,
		}); err != nil {
			return err
		}

		if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
			return err
		}
		if err := e.finalizeTurn(ctx, game.ID); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s ya eligió una carta de la pila de descarte", player.Name))
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
