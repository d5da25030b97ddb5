package game

import (
	"context"
	"fmt"
	"strings"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// ariadneOliver attaches itself to any existing set as a universal add-on and
// forces the set's owner to choose a secret. Unlike most events it hard-fails
// when no opposing set exists.
func (e *Engine) ariadneOliver(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch {
	case card.TurnPlayed == nil && game.Status == models.StatusTurnStart:
		setsInGame, err := e.Store.Sets().Search(ctx, store.SetFilter{GameID: &game.ID})
		if err != nil {
			return err
		}
		hasOpposing := false
		for _, s := range setsInGame {
			if s.Owner != *card.Owner {
				hasOpposing = true
				break
			}
		}
		if !hasOpposing {
			return errInvalid("No se puede jugar el set Ariadne Oliver: No hay sets para agregarse")
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta ARIADNE OLIVER", player.Name))

		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		canceled, err := e.notSoFastStatus(ctx, game, card.ID)
		if err != nil {
			return err
		}
		if canceled {
			if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
				return err
			}
			return e.finalizeTurn(ctx, game.ID)
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSet, card.Owner)

	case card.TurnPlayed != nil && game.Status == models.StatusWaitingForChooseSet:
		if len(t.Sets) == 0 {
			return errInvalid("No fue seleccionado el set a robar")
		}
		detectiveSet, err := e.Store.Sets().Get(ctx, t.Sets[0])
		if err != nil {
			return errNotFound("No se encontro el set a robar")
		}
		if detectiveSet.GameID != game.ID {
			return errInvalid("El set seleccionado no se encuentra en esta partida")
		}
		stolenPlayer, err := e.Store.Players().Get(ctx, detectiveSet.Owner)
		if err != nil {
			return err
		}

		// Attach the card itself to the set.
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{SetID: &detectiveSet.ID}); err != nil {
			return err
		}
		if _, err := e.Store.Sets().Update(ctx, detectiveSet.ID, store.SetUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}

		if err := e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSecret, &detectiveSet.Owner); err != nil {
			return err
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s agregó ARIADNE OLIVER al set %s de %s", player.Name, strings.ToUpper(setAnchorName(detectiveSet)), stolenPlayer.Name))
		return nil

	default:
		return errInvalid("No se puede bajar el set Ariadne Oliver")
	}
}
