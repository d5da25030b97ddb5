package game

import (
	"context"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// handSize is how many cards the active seat is topped up to when the turn
// ends.
const handSize = 6

// DiscardCards moves the given cards from the caller's hand onto the discard
// pile. Discarding is the turn action when the status still allows one; a
// player in social disgrace may only discard a single card. An
// early-train-to-paddington landing on the pile fires from there.
func (e *Engine) DiscardCards(ctx context.Context, cardIDs []int64, turnDiscarded int, token string) ([]*models.Card, error) {
	if len(cardIDs) == 0 {
		return nil, errUnprocessable("No se mandaron cartas a descartar")
	}

	var cards []*models.Card
	for _, cid := range cardIDs {
		card, err := e.Store.Cards().Get(ctx, cid)
		if err != nil {
			return nil, errNotFound("No se pudo encontrar la carta")
		}
		if card.Owner == nil {
			return nil, errNotFound("La carta no tiene dueño")
		}
		if card.TurnDiscarded != nil {
			return nil, errInvalid("No se puede descartar una carta descartada")
		}
		if card.SetID != nil {
			return nil, errInvalid("No se puede descartar una carta en set")
		}
		player, err := e.Store.Players().Get(ctx, *card.Owner)
		if err != nil {
			return nil, err
		}
		// One token per request: every card must belong to the caller.
		if player.Token != token {
			return nil, errUnauthorized("No se puede descartar la carta: Token invalido")
		}
		cards = append(cards, card)
	}

	game, err := e.Store.Games().Get(ctx, cards[0].GameID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar el juego")
	}
	if game.Status != models.StatusFinalizeTurn && game.Status != models.StatusTurnStart {
		return nil, errInvalid("No se puede descartar la carta: Estado de partida invalida")
	}
	if turnDiscarded != game.CurrentTurn {
		return nil, errInvalid("Se debe descartar en el turno actual")
	}

	player, err := e.Store.Players().Get(ctx, *cards[0].Owner)
	if err != nil {
		return nil, err
	}
	players, err := e.playersInGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if player.Position == nil || *player.Position != game.CurrentTurn%len(players) {
		return nil, errPrecondition("No se puede descartar la carta: No es tu turno")
	}
	if player.SocialDisgrace && len(cards) > 1 {
		return nil, errInvalid("En desgracia social solo se permite descartar una carta")
	}

	inSet := true
	hand, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:      &game.ID,
		Owner:       &player.ID,
		SetIDIsNull: &inSet,
	})
	if err != nil {
		return nil, err
	}
	if len(cards) > len(hand) {
		return nil, errInvalid("No se pueden descartar las cartas: No tenes esa cantidad en mano")
	}

	order, err := e.nextDiscardedOrder(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(cards))
	ups := make([]store.CardUpdate, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
		ups[i] = discardUpdate(game.CurrentTurn, order+i)
	}
	updated, err := e.Store.Cards().UpdateBulk(ctx, ids, ups)
	if err != nil {
		return nil, err
	}

	for _, c := range updated {
		if c.Name == models.CardEarlyTrainToPaddington {
			if err := e.earlyTrainToPaddington(ctx, c, true); err != nil {
				return nil, err
			}
		}
	}

	game, err = e.Store.Games().Get(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	switch game.Status {
	case models.StatusTurnStart, models.StatusFinalizeTurn, models.StatusWaitingForCancelAction:
		st := models.StatusFinalizeTurnDraft
		if _, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// TakeDraftCard gives one of the three face-up draft cards to the active
// seat.
func (e *Engine) TakeDraftCard(ctx context.Context, cardID, playerID int64, token string) (*models.Card, error) {
	card, err := e.Store.Cards().Get(ctx, cardID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar la carta")
	}
	game, err := e.Store.Games().Get(ctx, card.GameID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar el juego")
	}
	if game.Status != models.StatusFinalizeTurnDraft && game.Status != models.StatusFinalizeTurn {
		return nil, errInvalid("No se puede agarrar la carta: Estado de partida invalido")
	}
	player, err := e.Store.Players().Get(ctx, playerID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar el jugador")
	}
	if player.GameID == nil || *player.GameID != game.ID {
		return nil, errInvalid("El jugador no pertenece al juego")
	}
	if player.Token != token {
		return nil, errUnauthorized("No se puede agarrar la carta: Token invalido")
	}

	players, err := e.playersInGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if player.Position == nil || *player.Position != game.CurrentTurn%len(players) {
		return nil, errPrecondition("No se puede agarrar la carta: No es tu turno")
	}

	inSet := true
	hand, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:      &game.ID,
		Owner:       &player.ID,
		SetIDIsNull: &inSet,
	})
	if err != nil {
		return nil, err
	}
	if len(hand) > 5 {
		return nil, errPrecondition("No se pueden agarrar mas cartas")
	}

	yes := true
	empty := ""
	draft, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:              &game.ID,
		TurnDiscardedIsNull: &yes,
		OwnerIsNull:         &yes,
		Content:             &empty,
		Limit:               3,
	})
	if err != nil {
		return nil, err
	}
	inDraft := false
	for _, c := range draft {
		if c.ID == card.ID {
			inDraft = true
			break
		}
	}
	if !inDraft {
		return nil, errInvalid("Solo se pueden agarrar cartas del draft")
	}

	updated, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{Owner: &player.ID})
	if err != nil {
		return nil, err
	}
	if game.Status != models.StatusFinalizeTurnDraft {
		st := models.StatusFinalizeTurnDraft
		if _, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// EndTurn closes the active seat's turn: the hand is topped back up to six
// from the pile, spent not-so-fast cards are swept onto the discard pile,
// and the turn counter moves to nextTurn. An empty pile finalizes the game.
func (e *Engine) EndTurn(ctx context.Context, gameID int64, nextTurn int, token string) (*models.Game, error) {
	game, err := e.Store.Games().Get(ctx, gameID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar el juego")
	}
	if game.Status != models.StatusFinalizeTurn && game.Status != models.StatusFinalizeTurnDraft {
		return nil, errPreconditionRequired("No se puede terminar turno sin descartar o jugar una carta")
	}

	players, err := e.playersInGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	pos := game.CurrentTurn % len(players)
	seats, err := e.Store.Players().Search(ctx, store.PlayerFilter{GameID: &gameID, Position: &pos})
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 || seats[0].Token != token {
		return nil, errUnauthorized("Token invalido")
	}
	current := seats[0]

	inSet := true
	hand, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:      &gameID,
		Owner:       &current.ID,
		SetIDIsNull: &inSet,
	})
	if err != nil {
		return nil, err
	}

	status := models.StatusTurnStart
	if len(hand) < handSize {
		yes := true
		empty := ""
		topUp, err := e.Store.Cards().Search(ctx, store.CardFilter{
			GameID:               &gameID,
			DiscardedOrderIsNull: &yes,
			OwnerIsNull:          &yes,
			Content:              &empty,
			Limit:                handSize - len(hand),
			Offset:               3,
		})
		if err != nil {
			return nil, err
		}
		for _, c := range topUp {
			if _, err := e.Store.Cards().Update(ctx, c.ID, store.CardUpdate{Owner: &current.ID}); err != nil {
				return nil, err
			}
		}
		if len(topUp) > 0 {
			left, err := e.Store.Cards().Search(ctx, store.CardFilter{
				GameID:              &gameID,
				OwnerIsNull:         &yes,
				TurnDiscardedIsNull: &yes,
				Content:             &empty,
				Offset:              3,
			})
			if err != nil {
				return nil, err
			}
			if len(left) == 0 {
				status = models.StatusFinalized
			}
		}
	}

	// Sweep the not-so-fast cards spent answering this turn's actions.
	action := models.ActionToCancel
	no := false
	spent, err := e.Store.Events().Search(ctx, store.EventFilter{
		GameID:           &gameID,
		TurnPlayed:       &game.CurrentTurn,
		Action:           &action,
		TargetCardIsNull: &no,
	})
	if err != nil {
		return nil, err
	}
	if len(spent) > 0 {
		order, err := e.nextDiscardedOrder(ctx, gameID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, len(spent))
		ups := make([]store.CardUpdate, len(spent))
		for i, ev := range spent {
			ids[i] = *ev.TargetCard
			ups[i] = discardUpdate(game.CurrentTurn, order+i)
		}
		if _, err := e.Store.Cards().UpdateBulk(ctx, ids, ups); err != nil {
			return nil, err
		}
	}

	e.publishHistory(ctx, gameID, game.CurrentTurn, &current.ID, "end_turn")

	return e.Store.Games().Update(ctx, gameID, store.GameUpdate{CurrentTurn: &nextTurn, Status: &status})
}
