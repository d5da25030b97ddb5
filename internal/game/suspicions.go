package game

import (
	"context"
	"fmt"
	"strings"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// pointYourSuspicions runs a table-wide vote: every player points at a
// suspect, the plurality winner reveals a secret. A tie hands the deciding
// vote to whoever played the card, so the vote loops until it resolves.
func (e *Engine) pointYourSuspicions(ctx context.Context, card *models.Card, game *models.Game, issuer *models.Player, t Targets) error {
	player, err := e.Store.Players().Get(ctx, *card.Owner)
	if err != nil {
		return err
	}
	players, err := e.playersInGame(ctx, card.GameID)
	if err != nil {
		return err
	}

	switch game.Status {
	case models.StatusTurnStart:
		if _, err := e.Store.Cards().Update(ctx, card.ID, store.CardUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s jugó la carta POINT YOUR SUSPICIONS", player.Name))

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
			e.chat(ctx, game.ID, "La carta POINT YOUR SUSPICIONS fue cancelada")
			return nil
		}
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChoosePlayer, nil)

	case models.StatusWaitingForChoosePlayer:
		if len(t.Players) == 0 {
			return errInvalid("Debes señalar a un jugador")
		}
		inGame := false
		for _, p := range players {
			if p.ID == t.Players[0] {
				inGame = true
				break
			}
		}
		if !inGame {
			return errInvalid("El jugador señalado no está en la partida")
		}

		action := models.ActionPointYourSuspicions
		if err := e.Store.Events().Create(ctx, &models.Event{
			GameID:       game.ID,
			PlayerID:     &issuer.ID,
			Action:       action,
			TurnPlayed:   game.CurrentTurn,
			TargetPlayer: &t.Players[0],
		}); err != nil {
			return err
		}
		target, err := e.Store.Players().Get(ctx, t.Players[0])
		if err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s apuntó a %s como sospechoso", issuer.Name, target.Name))

		no := false
		votes, err := e.Store.Events().Search(ctx, store.EventFilter{
			GameID:             &game.ID,
			TurnPlayed:         &game.CurrentTurn,
			Action:             &action,
			TargetPlayerIsNull: &no,
		})
		if err != nil {
			return err
		}
		if len(votes) < len(players) {
			return nil
		}

		count := map[int64]int{}
		var order []int64
		for _, v := range votes {
			if _, ok := count[*v.TargetPlayer]; !ok {
				order = append(order, *v.TargetPlayer)
			}
			count[*v.TargetPlayer]++
		}
		best := 0
		for _, c := range count {
			if c > best {
				best = c
			}
		}
		var top []int64
		for _, id := range order {
			if count[id] == best {
				top = append(top, id)
			}
		}

		if len(top) > 1 {
			var names strings.Builder
			for _, id := range top {
				p, err := e.Store.Players().Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(&names, "%s, ", p.Name)
			}
			e.chat(ctx, game.ID, fmt.Sprintf("%s empataron, %s desempata", names.String(), player.Name))
			return e.setPhase(ctx, game.ID, models.StatusWaitingForChoosePlayer, card.Owner)
		}

		suspect, err := e.Store.Players().Get(ctx, top[0])
		if err != nil {
			return err
		}
		e.chat(ctx, game.ID, fmt.Sprintf("%s fue elegido como sospechoso, debe revelar un secreto", suspect.Name))
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSecret, &suspect.ID)

	case models.StatusWaitingForChooseSecret:
		if len(t.Secrets) == 0 {
			return errInvalid("Debes señalar un secreto")
		}
		secret, err := e.Store.Secrets().Get(ctx, t.Secrets[0])
		if err != nil {
			return err
		}
		if game.PlayerInAction == nil || secret.Owner != *game.PlayerInAction {
			return errInvalid("El secreto señalado no pertenece al jugador en acción")
		}
		if secret.Revealed {
			return errInvalid("El secreto señalado ya fue revelado")
		}
		outcome, err := e.RevealSecret(ctx, secret)
		if err != nil {
			return err
		}
		if outcome == RevealEffectApplied {
			if err := e.finalizeTurn(ctx, game.ID); err != nil {
				return err
			}
			e.chat(ctx, game.ID, "El sospechoso reveló un secreto")
			if err := e.discardCard(ctx, card, game.CurrentTurn, false); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
