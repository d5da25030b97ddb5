package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// deadCardFolly has every player pass one card to their neighbor in a chosen
// direction. Each pick is logged as a dead_card_folly_trade event; once every
// seat has picked, the unresolved passes run and devious detection takes
// over.
func (e *Engine) deadCardFolly(ctx context.Context, card *models.Card, game *models.Game, issuer *models.Player, t Targets) error {
	events := e.Store.Events()
	players, err := e.playersInGame(ctx, card.GameID)
	if err != nil {
		return err
	}
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch game.Status {
	case models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta DEAD CARD FOLLY", player.Name))

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
			e.chat(ctx, game.ID, "La carta DEAD CARD FOLLY fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingToChooseDirection, card.Owner)

	case models.StatusWaitingToChooseDirection:
		if t.Order != models.OrderClockwise && t.Order != models.OrderAntiClockwise {
			return errInvalid("Debes elegir un orden")
		}
		if err := events.Create(ctx, &models.Event{
			GameID:     game.ID,
			PlayerID:   &issuer.ID,
			Action:     models.ActionDeadCardFollyPrefix + t.Order,
			TurnPlayed: game.CurrentTurn,
		}); err != nil {
			return err
		}

		side := "izquierda"
		if t.Order == models.OrderClockwise {
			side = "derecha"
		}
		e.chat(ctx, game.ID, fmt.Sprintf("Los intercambios se realizaran a la %s", side))

		return e.setPhase(ctx, game.ID, models.StatusSelectCardToTrade, nil)

	case models.StatusSelectCardToTrade:
		if len(t.Cards) == 0 {
			return errInvalid("Debes elegir una carta")
		}
		targetCard, err := e.Store.Cards().Get(ctx, t.Cards[0])
		if err != nil || targetCard.Owner == nil || *targetCard.Owner != issuer.ID {
			return errInvalid("Carta no válida")
		}

		orderEvents, err := events.Search(ctx, store.EventFilter{
			GameID:     &game.ID,
			TurnPlayed: &game.CurrentTurn,
			ActionIn:   []string{models.ActionDeadCardFollyClockwise, models.ActionDeadCardFollyAntiClockwise},
		})
		if err != nil {
			return err
		}
		if len(orderEvents) == 0 {
			return errInvalid("Debes elegir un orden")
		}
		clockwise := orderEvents[0].Action == models.ActionDeadCardFollyClockwise

		n := len(players)
		nextPos := (*issuer.Position - 1 + n) % n
		if clockwise {
			nextPos = (*issuer.Position + 1) % n
		}
		var nextPlayer *models.Player
		for _, p := range players {
			if p.Position != nil && *p.Position == nextPos {
				nextPlayer = p
				break
			}
		}
		if nextPlayer == nil {
			return errInvalid("Carta no válida")
		}

		if err := events.Create(ctx, &models.Event{
			GameID:       game.ID,
			PlayerID:     &issuer.ID,
			Action:       models.ActionDeadCardFollyTrade,
			TurnPlayed:   game.CurrentTurn,
			TargetCard:   &targetCard.ID,
			TargetPlayer: &nextPlayer.ID,
		}); err != nil {
			return err
		}

		follyTrade := models.ActionDeadCardFollyTrade
		tradeEvents, err := events.Search(ctx, store.EventFilter{
			GameID:     &game.ID,
			TurnPlayed: &game.CurrentTurn,
			Action:     &follyTrade,
		})
		if err != nil {
			return err
		}

		if len(tradeEvents) >= len(players) {
			// Resolve passes not already consumed by a devious chain.
			for _, ev := range tradeEvents {
				if ev.CompletedAction {
					continue
				}
				if _, err := e.Store.Cards().Update(ctx, *ev.TargetCard, store.CardUpdate{Owner: ev.TargetPlayer}); err != nil {
					return err
				}
				passed, err := e.Store.Cards().Get(ctx, *ev.TargetCard)
				if err != nil {
					return err
				}
				done := passed.CardType != models.CardTypeDevious
				if _, err := events.Update(ctx, ev.ID, store.EventUpdate{CompletedAction: &done}); err != nil {
					return err
				}
			}

			if err := e.discardCard(ctx, card, game.CurrentTurn, true); err != nil {
				return err
			}

			side := "izquierda"
			if clockwise {
				side = "derecha"
			}
			e.chat(ctx, game.ID, fmt.Sprintf("La carta DEAD CARD FOLLY realizó todos los intercambios a la %s", side))
			return e.detectDevious(ctx, game)
		}
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
