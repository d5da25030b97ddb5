package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// cardTrade swaps one card between the player and a chosen opponent. The two
// picks are logged as card_trade events; once both carry a target card the
// swap runs atomically and devious detection takes over.
func (e *Engine) cardTrade(ctx context.Context, card *models.Card, game *models.Game, issuer *models.Player, t Targets) error {
	events := e.Store.Events()
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch game.Status {
	case models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta CARD TRADE", player.Name))

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
			e.chat(ctx, game.ID, "La carta CARD TRADE fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChoosePlayer, card.Owner)

	case models.StatusWaitingForChoosePlayer:
		if len(t.Players) == 0 {
			return errInvalid("Debes señalar a un jugador")
		}
		if t.Players[0] == *card.Owner {
			return errInvalid("No puedes señalarte a ti mismo")
		}
		if err := events.Create(ctx, &models.Event{
			GameID:          game.ID,
			PlayerID:        card.Owner,
			Action:          models.ActionCardTrade,
			TurnPlayed:      game.CurrentTurn,
			TargetPlayer:    &t.Players[0],
			CompletedAction: true,
		}); err != nil {
			return err
		}
		targetPlayer, err := e.Store.Players().Get(ctx, t.Players[0])
		if err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s eligió a %s para intercambiar una carta", player.Name, targetPlayer.Name))
		st := models.StatusSelectCardToTrade
		_, err = e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st})
		return err

	case models.StatusSelectCardToTrade:
		if len(t.Cards) == 0 {
			return errInvalid("Debes señalar una carta")
		}
		yes := true
		myCards, err := e.Store.Cards().Search(ctx, store.CardFilter{
			GameID:              &game.ID,
			Owner:               &issuer.ID,
			TurnDiscardedIsNull: &yes,
		})
		if err != nil {
			return err
		}
		owned := false
		for _, c := range myCards {
			if c.ID == t.Cards[0] {
				owned = true
				break
			}
		}
		if !owned {
			return errInvalid("La carta señalada no te pertenece")
		}

		targetCard, err := e.Store.Cards().Get(ctx, t.Cards[0])
		if err != nil {
			return err
		}

		// The opening event (no target card yet) names both participants;
		// the counterpart of this pick is whichever of them the issuer is
		// not.
		trade := models.ActionCardTrade
		noCard := true
		firstEvents, err := events.Search(ctx, store.EventFilter{
			GameID:           &card.GameID,
			TurnPlayed:       &game.CurrentTurn,
			Action:           &trade,
			TargetCardIsNull: &noCard,
		})
		if err != nil {
			return err
		}
		if len(firstEvents) == 0 {
			return errInvalid("Ya no se puede jugar eventos")
		}
		first := firstEvents[0]
		counterpart := first.PlayerID
		if first.PlayerID != nil && issuer.ID == *first.PlayerID {
			counterpart = first.TargetPlayer
		}

		if err := events.Create(ctx, &models.Event{
			GameID:          game.ID,
			PlayerID:        &issuer.ID,
			Action:          models.ActionCardTrade,
			TurnPlayed:      game.CurrentTurn,
			TargetCard:      &t.Cards[0],
			TargetPlayer:    counterpart,
			CompletedAction: targetCard.CardType != models.CardTypeDevious,
		}); err != nil {
			return err
		}

		hasCard := false
		selectedEvents, err := events.Search(ctx, store.EventFilter{
			GameID:           &card.GameID,
			TurnPlayed:       &game.CurrentTurn,
			Action:           &trade,
			TargetCardIsNull: &hasCard,
		})
		if err != nil {
			return err
		}

		if len(selectedEvents) >= 2 {
			card1, err := e.Store.Cards().Get(ctx, *selectedEvents[0].TargetCard)
			if err != nil {
				return err
			}
			card2, err := e.Store.Cards().Get(ctx, *selectedEvents[1].TargetCard)
			if err != nil {
				return err
			}

			card1Owner := card1.Owner
			up1 := store.CardUpdate{Owner: card2.Owner}
			if card2.Owner == nil {
				up1 = store.CardUpdate{ClearOwner: true}
			}
			up2 := store.CardUpdate{Owner: card1Owner}
			if card1Owner == nil {
				up2 = store.CardUpdate{ClearOwner: true}
			}
			if _, err := e.Store.Cards().UpdateBulk(ctx, []int64{card1.ID, card2.ID}, []store.CardUpdate{up1, up2}); err != nil {
				return err
			}

			if err := e.discardCard(ctx, card, game.CurrentTurn, true); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "Se han intercambiado las cartas")
			return e.detectDevious(ctx, game)
		}
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
