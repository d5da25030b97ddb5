package game

import (
	"context"
	"fmt"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// detectDevious resolves the next pending devious card picked up in a trade.
// It recurses through cancellations until the queue is drained, then hands
// the turn to its closing phase.
func (e *Engine) detectDevious(ctx context.Context, game *models.Game) error {
	no := false
	events, err := e.Store.Events().Search(ctx, store.EventFilter{
		GameID:          &game.ID,
		TurnPlayed:      &game.CurrentTurn,
		ActionIn:        []string{models.ActionCardTrade, models.ActionDeadCardFollyTrade},
		CompletedAction: &no,
	})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		st := models.StatusFinalizeTurn
		_, err := e.Store.Games().Update(ctx, game.ID, store.GameUpdate{Status: &st})
		return err
	}

	event := events[0]
	yes := true
	if _, err := e.Store.Events().Update(ctx, event.ID, store.EventUpdate{CompletedAction: &yes}); err != nil {
		return err
	}
	card, err := e.Store.Cards().Get(ctx, *event.TargetCard)
	if err != nil {
		return err
	}
	if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
		return err
	}

	switch card.Name {
	case models.CardSocialFauxPas:
		target, err := e.Store.Players().Get(ctx, *event.TargetPlayer)
		if err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s reicibió un SOCIAL FAUX PAUS ", target.Name))

		canceled, err := e.notSoFastStatus(ctx, game, card.ID)
		if err != nil {
			return err
		}
		if canceled {
			if err := e.discardCard(ctx, card, game.CurrentTurn, true); err != nil {
				return err
			}
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "La devious SOCIAL FAUX PAS fue cancelada")
			return e.detectDevious(ctx, game)
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSecret, event.TargetPlayer)

	case models.CardBlackmailed:
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSecret, event.PlayerID)
	}
	return nil
}

// blackmailed shows one of the victim's secrets to the blackmailer in
// private. The secret stays hidden for everyone else.
func (e *Engine) blackmailed(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	if card.TurnPlayed == nil || *card.TurnPlayed != game.CurrentTurn {
		return errInvalid("La devious no esta en juego")
	}
	if game.Status != models.StatusWaitingForChooseSecret {
		return nil
	}
	if len(t.Secrets) == 0 {
		return errPrecondition("Debes seleccionar secretos a revelar en privado")
	}

	yes := true
	events, err := e.Store.Events().Search(ctx, store.EventFilter{
		TargetCard:      &card.ID,
		TurnPlayed:      &game.CurrentTurn,
		CompletedAction: &yes,
	})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return errInvalid("Evento devious incorrecto")
	}
	event := events[0]

	blackmailer, err := e.Store.Players().Get(ctx, *event.PlayerID)
	if err != nil {
		return err
	}
	victim, err := e.Store.Players().Get(ctx, *event.TargetPlayer)
	if err != nil {
		return err
	}
	if game.PlayerInAction == nil || *game.PlayerInAction != blackmailer.ID {
		return errInvalid("Evento devious incorrecto")
	}

	e.Notifier.NotifyGame(game.ID, models.Message{
		Model:    "devious",
		Action:   "show-secret",
		DestGame: &game.ID,
		Data: map[string]any{
			"secret_id": t.Secrets[0],
			"dest_user": blackmailer.ID,
		},
	})
	e.chat(ctx, game.ID, fmt.Sprintf("%s reicibió un BLACKMAILED y le mostro un secreto a %s", victim.Name, blackmailer.Name))

	if err := e.discardCard(ctx, card, game.CurrentTurn, true); err != nil {
		return err
	}
	return e.detectDevious(ctx, game)
}

// socialFauxPas forces the victim to reveal one of their own secrets
// publicly.
func (e *Engine) socialFauxPas(ctx context.Context, card *models.Card, game *models.Game, t Targets) error {
	if card.TurnPlayed == nil || *card.TurnPlayed != game.CurrentTurn {
		return errInvalid("La devious no esta en juego")
	}
	if game.Status != models.StatusWaitingForChooseSecret {
		return nil
	}
	if len(t.Secrets) == 0 {
		return errPrecondition("Debes seleccionar secretos a revelar en privado")
	}

	yes := true
	events, err := e.Store.Events().Search(ctx, store.EventFilter{
		TargetCard:      &card.ID,
		TurnPlayed:      &game.CurrentTurn,
		CompletedAction: &yes,
	})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return errInvalid("Evento devious incorrecto")
	}
	event := events[0]

	victim, err := e.Store.Players().Get(ctx, *event.TargetPlayer)
	if err != nil {
		return err
	}
	if game.PlayerInAction == nil || *game.PlayerInAction != victim.ID {
		return errInvalid("Evento devious incorrecto")
	}

	e.chat(ctx, game.ID, fmt.Sprintf("%s reveló un secreto", victim.Name))

	if err := e.discardCard(ctx, card, game.CurrentTurn, true); err != nil {
		return err
	}

	secret, err := e.Store.Secrets().Get(ctx, t.Secrets[0])
	if err != nil {
		return err
	}
	outcome, err := e.RevealSecret(ctx, secret)
	if err != nil {
		return err
	}
	if outcome == RevealGameFinalized {
		return nil
	}
	return e.detectDevious(ctx, game)
}
