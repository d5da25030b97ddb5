package game

import (
	"context"
	"fmt"
	"strings"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// setAnchorName returns the set's detective name ignoring wildcards and
// appended ariadne-oliver cards.
func setAnchorName(ds *models.DetectiveSet) string {
	for _, d := range ds.Detectives {
		if d.Name != models.CardHarleyQuinWildcard && d.Name != models.CardAriadneOliver {
			return d.Name
		}
	}
	return ""
}

// anotherVictim steals a detective set from an opponent. With no opposing set
// on the table the card self-discards without a cancellation window.
func (e *Engine) anotherVictim(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
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
			if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
				return err
			}
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "La carta ANOTHER VICTIM se jugó sin sets, se descarta")
			return nil
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta ANOTHER VICTIM", player.Name))

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
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "la carta ANOTHER VICTIM fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSet, card.Owner)

	case card.TurnPlayed != nil && game.Status == models.StatusWaitingForChooseSet:
		if len(t.Sets) == 0 {
			return errInvalid("No fue seleccionado el set a robar")
		}
		stolenSet, err := e.Store.Sets().Get(ctx, t.Sets[0])
		if err != nil {
			return errNotFound("No se encontro el set a robar")
		}
		stolenPlayer, err := e.Store.Players().Get(ctx, stolenSet.Owner)
		if err != nil {
			return err
		}
		if stolenSet.GameID != game.ID {
			return errInvalid("El set seleccionado no se encuentra en esta partida")
		}
		if stolenSet.Owner == *card.Owner {
			return errInvalid("No se puede robar un set propio")
		}

		if _, err := e.Store.Sets().Update(ctx, stolenSet.ID, store.SetUpdate{Owner: card.Owner, TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}

		next, err := e.setNextGameStatus(ctx, stolenSet, game)
		if err != nil {
			return err
		}
		if err := e.setPhase(ctx, game.ID, next, card.Owner); err != nil {
			return err
		}
		if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
			return err
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s robó el set %s de %s", player.Name, strings.ToUpper(setAnchorName(stolenSet)), stolenPlayer.Name))
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
