package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// cardsOffTheTable strips every not-so-fast from one target player's hand.
// Phase 1 only parks the game waiting for a target; there is no cancellation
// window for this card.
func (e *Engine) cardsOffTheTable(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	switch {
	case card.TurnPlayed == nil && game.Status == models.StatusTurnStart:
		player, err := e.Store.Players().Get(ctx, *card.Owner)
		if err != nil {
			return err
		}
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		if err := e.setPhase(ctx, game.ID, models.StatusWaitingForChoosePlayer, &player.ID); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta CARDS OFF THE TABLE", player.Name))
		return nil

	case card.TurnPlayed != nil && game.Status == models.StatusWaitingForChoosePlayer:
		if len(t.Players) != 1 {
			return errInvalid("Cantidad erronea de jugadores objetivos")
		}
		if *card.TurnPlayed != game.CurrentTurn {
			return errInvalid("No se puede relanzar una carta jugada")
		}

		targetPlayer, err := e.Store.Players().Get(ctx, t.Players[0])
		if err != nil {
			return errNotFound("Jugador objetivo no existente")
		}
		if targetPlayer.GameID == nil || *targetPlayer.GameID != card.GameID {
			return errInvalid("Jugador no existente en esta partida")
		}

		nsf := models.CardNotSoFast
		cardsToDiscard, err := e.Store.Cards().Search(ctx, store.CardFilter{
			Owner: &targetPlayer.ID,
			Name:  &nsf,
		})
		if err != nil {
			return err
		}

		discarded := 0
		if len(cardsToDiscard) != 0 {
			order, err := e.nextDiscardedOrder(ctx, card.GameID)
			if err != nil {
				return err
			}
			for i, c := range cardsToDiscard {
				if _, err := e.Store.Cards().Update(ctx, c.ID, discardUpdate(game.CurrentTurn, order+i)); err != nil {
					return err
				}
			}
			discarded++
		}

		if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
			return err
		}

		e.chat(ctx, game.ID, fmt.Sprintf("la carta CARDS OFF THE TABLE descartó %d Not So Fast a %s", discarded, targetPlayer.Name))
		return e.finalizeTurn(ctx, game.ID)

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
