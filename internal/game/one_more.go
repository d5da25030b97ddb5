package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// andThenThereWasOneMore re-hides a revealed secret into another player's
// collection. With no secrets revealed there is nothing to act on, so the
// card self-discards without a cancellation window.
func (e *Engine) andThenThereWasOneMore(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	cardPlayer, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch {
	case card.TurnPlayed == nil && game.Status == models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}

		revealed := true
		secretsRevealed, err := e.Store.Secrets().Search(ctx, store.SecretFilter{GameID: &game.ID, Revealed: &revealed})
		if err != nil {
			return err
		}
		if len(secretsRevealed) == 0 {
			if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
				return err
			}
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, fmt.Sprintf("%s jugó un AND THEN THERE WAS ONE MORE sin secretos revelados, se descarta", cardPlayer.Name))
			return nil
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó un AND THEN THERE WAS ONE MORE", cardPlayer.Name))

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
			e.chat(ctx, game.ID, "la carta AND THEN THERE WAS ONE MORE fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChoosePlayerSecret, card.Owner)

	case card.TurnPlayed != nil && game.Status == models.StatusWaitingForChoosePlayerSecret:
		if len(t.Secrets) == 0 {
			return errInvalid("Se debe mandar un secreto a revelar")
		}
		if len(t.Players) == 0 {
			return errInvalid("Se debe mandar un jugador objetivo")
		}

		secret, err := e.Store.Secrets().Get(ctx, t.Secrets[0])
		if err != nil {
			return errNotFound("Secreto no existente")
		}
		targetPlayer, err := e.Store.Players().Get(ctx, t.Players[0])
		if err != nil {
			return errNotFound("Jugador objetivo no existente")
		}
		if secret.GameID != game.ID {
			return errInvalid("No se puede robar un secreto de otra partida")
		}
		originalOwner, err := e.Store.Players().Get(ctx, secret.Owner)
		if err != nil {
			return err
		}
		if !secret.Revealed {
			return errInvalid("No se puede robar un secreto oculto")
		}

		hidden := false
		if _, err := e.Store.Secrets().Update(ctx, secret.ID, store.SecretUpdate{Owner: &targetPlayer.ID, Revealed: &hidden}); err != nil {
			return err
		}

		if originalOwner.SocialDisgrace {
			cleared := false
			if _, err := e.Store.Players().Update(ctx, secret.Owner, store.PlayerUpdate{SocialDisgrace: &cleared}); err != nil {
				return err
			}
		}

		if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
			return err
		}
		if err := e.finalizeTurn(ctx, game.ID); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("El secreto revelado de %s fue oculto en los secretos de %s", originalOwner.Name, targetPlayer.Name))
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
