package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
)

// Targets carries the player-chosen objects of a card action. Which fields a
// handler reads depends on the card and the current phase.
type Targets struct {
	Players []int64 `json:"target_players"`
	Secrets []int64 `json:"target_secrets"`
	Cards   []int64 `json:"target_cards"`
	Sets    []int64 `json:"target_sets"`
	Order   string  `json:"player_order,omitempty"`
}

// PlayCard runs the effect of the named card, dispatching on its name. It is
// called both to open an action (phase 1) and to supply its targets in later
// phases; the handler decides which from the card and game state.
func (e *Engine) PlayCard(ctx context.Context, cardID int64, token string, t Targets) error {
	card, err := e.Store.Cards().Get(ctx, cardID)
	if err != nil {
		return errNotFound("Carta no encontrada")
	}

	if card.Owner == nil {
		return errNotFound("Jugador no encontrado")
	}
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return errNotFound("Jugador no encontrado")
	}

	issuer, err := e.playerByToken(ctx, token)
	if err != nil {
		return err
	}

	if player.GameID == nil {
		return errNotFound("Juego no encontrado")
	}
	game, err := e.Store.Games().Get(ctx, *player.GameID)
	if err != nil {
		return errNotFound("Juego no encontrado")
	}

	if player.SocialDisgrace && game.Status == models.StatusTurnStart {
		return errInvalid("No se pueden jugar cartas en desgracia social")
	}

	switch card.Name {
	case models.CardEarlyTrainToPaddington:
		return e.earlyTrainToPaddington(ctx, card, false)
	case models.CardCardsOffTheTable:
		return e.cardsOffTheTable(ctx, card, game, t)
	case models.CardLookIntoTheAshes:
		return e.lookIntoTheAshes(ctx, card, game, t)
	case models.CardAndThenThereWasOneMore:
		return e.andThenThereWasOneMore(ctx, card, game, t)
	case models.CardAnotherVictim:
		return e.anotherVictim(ctx, card, game, t)
	case models.CardDelayTheMurderersEscape:
		return e.delayTheMurderersEscape(ctx, card, game, t)
	case models.CardPointYourSuspicions:
		return e.pointYourSuspicions(ctx, card, game, issuer, t)
	case models.CardAriadneOliver:
		return e.ariadneOliver(ctx, card, game, t)
	case models.CardCardTrade:
		return e.cardTrade(ctx, card, game, issuer, t)
	case models.CardDeadCardFolly:
		return e.deadCardFolly(ctx, card, game, issuer, t)
	case models.CardBlackmailed:
		return e.blackmailed(ctx, card, game, t)
	case models.CardSocialFauxPas:
		return e.socialFauxPas(ctx, card, game, t)
	default:
		return errNotFound(fmt.Sprintf("No se encontró una acción para la carta '%s'", card.Name))
	}
}
