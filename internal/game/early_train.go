package game

import (
	"context"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// earlyTrainToPaddington burns six cards off the top of the draw pile
// (leaving the 3-card draft intact) and destroys itself. It is also invoked
// with inDiscard=true whenever an instance of the card surfaces inside the
// discard pile, so the pile-ran-dry consequence applies wherever the card
// physically sits.
func (e *Engine) earlyTrainToPaddington(ctx context.Context, card *models.Card, inDiscard bool) error {
	game, err := e.Store.Games().Get(ctx, card.GameID)
	if err != nil {
		return err
	}

	if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
		return err
	}
	e.chat(ctx, game.ID, "se jugó la carta EARLY TRAIN TO PADDINGTON")

	canceled, err := e.notSoFastStatus(ctx, game, card.ID)
	if err != nil {
		return err
	}

	if canceled {
		// Canceled copies never touch the discard pile.
		if err := e.Store.Cards().Delete(ctx, card.ID); err != nil {
			return err
		}
		e.chat(ctx, game.ID, "Se canceló y eliminó la carta EARLY TRAIN TO PADDINGTON")
		if inDiscard {
			return nil
		}
		return e.finalizeTurn(ctx, game.ID)
	}

	// The first 3 pile cards are the draft; fetch one past the 6 we burn to
	// learn whether the pile runs dry.
	yes := true
	cardsToUpdate, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:               &card.GameID,
		DiscardedOrderIsNull: &yes,
		OwnerIsNull:          &yes,
		Limit:                7,
		Offset:               3,
	})
	if err != nil {
		return err
	}

	order, err := e.nextDiscardedOrder(ctx, card.GameID)
	if err != nil {
		return err
	}

	burn := cardsToUpdate
	if len(burn) > 6 {
		burn = burn[:6]
	}
	for i, c := range burn {
		up := discardUpdate(models.SentinelTurnDiscarded, order+i)
		if _, err := e.Store.Cards().Update(ctx, c.ID, up); err != nil {
			return err
		}
	}
	if err := e.Store.Cards().Delete(ctx, card.ID); err != nil {
		return err
	}

	if len(cardsToUpdate) < 7 {
		st := models.StatusFinalized
		_, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st, ClearPlayerInAction: true})
		return err
	}
	e.chat(ctx, game.ID, "Se jugó y eliminó la carta EARLY TRAIN TO PADDINGTON")
	if inDiscard {
		return nil
	}
	return e.finalizeTurn(ctx, game.ID)
}
