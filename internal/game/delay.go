package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// delayTheMurderersEscape cycles up to five discarded cards back into the
// draw pile, below the draft, in the order the player chose. The card itself
// is destroyed, never discarded.
func (e *Engine) delayTheMurderersEscape(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}

	switch game.Status {
	case models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó un DELAY THE MURDERERS ESCAPE", player.Name))

		canceled, err := e.notSoFastStatus(ctx, game, card.ID)
		if err != nil {
			return err
		}
		if canceled {
			if err := e.Store.Cards().Delete(ctx, card.ID); err != nil {
				return err
			}
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "la carta DELAY THE MURDERERS ESCAPE fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForOrderDiscard, card.Owner)

	case models.StatusWaitingForOrderDiscard:
		if len(t.Cards) == 0 {
			return errPrecondition("Se deben seleccionar cartas")
		}

		yes := true
		empty := ""
		pile, err := e.Store.Cards().Search(ctx, store.CardFilter{
			GameID:              &card.GameID,
			TurnDiscardedIsNull: &yes,
			OwnerIsNull:         &yes,
			Content:             &empty,
			Sort:                store.CardSortPileOrderDesc,
		})
		if err != nil {
			return err
		}
		cut := 3
		if len(pile) < cut {
			cut = len(pile)
		}
		draft := pile[:cut]
		notDraft := pile[cut:]

		no := false
		discarded, err := e.Store.Cards().Search(ctx, store.CardFilter{
			GameID:               &card.GameID,
			DiscardedOrderIsNull: &no,
			Sort:                 store.CardSortDiscardedOrderDesc,
		})
		if err != nil {
			return err
		}
		lastFive := discarded
		if len(lastFive) > 5 {
			lastFive = lastFive[:5]
		}

		// The chosen ordering governs; unmentioned cards sink to the end.
		rank := func(c *models.Card) int {
			for i, id := range t.Cards {
				if c.ID == id {
					return i
				}
			}
			return len(t.Cards)
		}
		sorted := make([]*models.Card, len(lastFive))
		copy(sorted, lastFive)
		for i := 1; i < len(sorted); i++ {
			for j := i; j > 0 && rank(sorted[j]) < rank(sorted[j-1]); j-- {
				sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			}
		}

		// Recycled cards slot in beneath the draft, the draft stays on top.
		recycled := append(notDraft, sorted...)

		var ids []int64
		var ups []store.CardUpdate
		for _, c := range sorted {
			ids = append(ids, c.ID)
			ups = append(ups, store.CardUpdate{
				ClearDiscardedOrder: true,
				ClearTurnDiscarded:  true,
				ClearTurnPlayed:     true,
				ClearOwner:          true,
				Content:             &empty,
			})
		}
		for i, c := range recycled {
			po := i
			ids = append(ids, c.ID)
			ups = append(ups, store.CardUpdate{PileOrder: &po})
		}
		for i := range draft {
			c := draft[len(draft)-1-i]
			po := len(recycled) + i
			ids = append(ids, c.ID)
			ups = append(ups, store.CardUpdate{PileOrder: &po})
		}
		if _, err := e.Store.Cards().UpdateBulk(ctx, ids, ups); err != nil {
			return err
		}

		if err := e.Store.Cards().Delete(ctx, card.ID); err != nil {
			return err
		}

		st := models.StatusFinalizeTurn
		if _, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s pasó cartas de la pila de descarte al mazo", player.Name))
		return nil

	default:
		return errInvalid("Ya no se puede jugar eventos")
	}
}
