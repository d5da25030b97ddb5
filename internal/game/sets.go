package game

import (
	"context"
	"fmt"
	"strings"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// detectivesChoosePlayers are the detectives whose set effect starts by
// pointing at another player instead of a secret.
var detectivesChoosePlayers = []string{
	models.CardMrSatterthwaite,
	models.CardLadyEileenBundle,
	models.CardTuppenceBeresford,
	models.CardTommyBeresford,
}

var tuppencePair = []string{models.CardTuppenceBeresford, models.CardTommyBeresford}

// setDisplayName is the chat-facing name of a set: its first card that is
// neither a wildcard nor an attached Ariadne Oliver.
func setDisplayName(ds *models.DetectiveSet) string {
	for _, d := range ds.Detectives {
		if d.Name != models.CardHarleyQuinWildcard && d.Name != models.CardAriadneOliver {
			return strings.ToUpper(strings.ReplaceAll(d.Name, "-", " "))
		}
	}
	return ""
}

// setNextGameStatus decides the phase a freshly played or stolen set moves
// the game into.
func (e *Engine) setNextGameStatus(ctx context.Context, ds *models.DetectiveSet, game *models.Game) (models.GameStatus, error) {
	if ds.HasDetective(detectivesChoosePlayers...) {
		return models.StatusWaitingForChoosePlayer, nil
	}
	if ds.HasDetective(models.CardParkerPyne) {
		yes := true
		revealed, err := e.Store.Secrets().Search(ctx, store.SecretFilter{GameID: &game.ID, Revealed: &yes})
		if err != nil {
			return "", err
		}
		if len(revealed) == 0 {
			return models.StatusFinalizeTurn, nil
		}
		return models.StatusWaitingForChooseSecret, nil
	}
	return models.StatusWaitingForChooseSecret, nil
}

// CreateDetectiveSet lays down a new set of matching detective cards from the
// caller's hand. Laying a set is an action and goes through the cancellation
// window, unless the set pairs Tommy and Tuppence Beresford, which cannot be
// answered.
func (e *Engine) CreateDetectiveSet(ctx context.Context, token string, detectiveIDs []int64) (*models.DetectiveSet, error) {
	player, err := e.Store.Players().GetByToken(ctx, token)
	if err != nil {
		return nil, errUnauthorized("Token inválido")
	}
	if player.SocialDisgrace {
		return nil, errInvalid("En desgracia social no se puede jugar un set")
	}
	if player.GameID == nil {
		return nil, errNotFound("Juego no encontrado")
	}
	game, err := e.Store.Games().Get(ctx, *player.GameID)
	if err != nil {
		return nil, errNotFound("Juego no encontrado")
	}
	if game.Status != models.StatusTurnStart {
		return nil, errInvalid("No se puede crear el set: Ya se realizo una accion")
	}

	for _, cid := range detectiveIDs {
		card, err := e.Store.Cards().Get(ctx, cid)
		if err != nil {
			return nil, errNotFound(fmt.Sprintf("Carta %d no encontrada", cid))
		}
		if card.CardType != models.CardTypeDetective {
			return nil, errInvalid("Solo se pueden crear sets con cartas detective")
		}
		if card.Owner == nil || *card.Owner != player.ID {
			return nil, errUnauthorized("No puedes usar cartas que no te pertenecen")
		}
		if card.SetID != nil {
			return nil, errInvalid("Alguna de las cartas ya se encuentra en un set")
		}
	}

	ds := &models.DetectiveSet{
		GameID:     game.ID,
		Owner:      player.ID,
		TurnPlayed: game.CurrentTurn,
	}
	if err := e.Store.Sets().Create(ctx, ds); err != nil {
		return nil, err
	}
	ups := make([]store.CardUpdate, len(detectiveIDs))
	for i := range ups {
		ups[i] = store.CardUpdate{SetID: &ds.ID}
	}
	if _, err := e.Store.Cards().UpdateBulk(ctx, detectiveIDs, ups); err != nil {
		return nil, err
	}
	ds, err = e.Store.Sets().Get(ctx, ds.ID)
	if err != nil {
		return nil, err
	}

	name := setDisplayName(ds)
	e.chat(ctx, game.ID, fmt.Sprintf("%s creó un set de %s", player.Name, name))

	canceled := false
	if !ds.HasAllDetectives(tuppencePair...) {
		canceled, err = e.notSoFastStatus(ctx, game, ds.ID)
		if err != nil {
			return nil, err
		}
	}

	if canceled {
		if ds.HasDetective(models.CardLadyEileenBundle) {
			e.chat(ctx, game.ID, fmt.Sprintf("Se canceló el set de %s y volvió a la mano del jugador", name))
			ids := make([]int64, len(ds.Detectives))
			clears := make([]store.CardUpdate, len(ds.Detectives))
			for i, d := range ds.Detectives {
				ids[i] = d.ID
				clears[i] = store.CardUpdate{ClearSetID: true}
			}
			if _, err := e.Store.Cards().UpdateBulk(ctx, ids, clears); err != nil {
				return nil, err
			}
			if err := e.Store.Sets().Delete(ctx, ds.ID); err != nil {
				return nil, err
			}
		}
		e.chat(ctx, game.ID, fmt.Sprintf("Se canceló el set de %s", name))
		if err := e.finalizeTurn(ctx, game.ID); err != nil {
			return nil, err
		}
		return ds, nil
	}

	next, err := e.setNextGameStatus(ctx, ds, game)
	if err != nil {
		return nil, err
	}
	if err := e.setPhase(ctx, game.ID, next, &player.ID); err != nil {
		return nil, err
	}
	return ds, nil
}

// AddDetectiveToSet attaches one more detective card to an existing set. The
// card must match the set's detective, pair Tommy with Tuppence, or be a
// wildcard or Ariadne Oliver added through their own flows.
func (e *Engine) AddDetectiveToSet(ctx context.Context, setID, cardID int64, token string) (*models.DetectiveSet, error) {
	ds, err := e.Store.Sets().Get(ctx, setID)
	if err != nil {
		return nil, errNotFound("No se puede actualizar el set: Set no encontrado")
	}
	game, err := e.Store.Games().Get(ctx, ds.GameID)
	if err != nil {
		return nil, errNotFound("Juego no encontrado")
	}
	if game.Status != models.StatusTurnStart {
		return nil, errPrecondition("No se puede actualizar el set: No es el comienzo de turno")
	}
	player, err := e.Store.Players().Get(ctx, ds.Owner)
	if err != nil {
		return nil, err
	}
	if player.Token != token {
		return nil, errUnauthorized("No se puede actualizar el set: Token invalido")
	}
	detective, err := e.Store.Cards().Get(ctx, cardID)
	if err != nil {
		return nil, errNotFound("No se puede actualizar el set: Detective no encontrado")
	}
	if detective.SetID != nil {
		return nil, errInvalid("No se puede actualizar el set: Detective en set")
	}
	if detective.Owner == nil || *detective.Owner != player.ID {
		return nil, errInvalid("No se puede actualizar el set: No es dueño de la carta")
	}

	isTuppencePairing := ds.HasDetective(tuppencePair...) &&
		(detective.Name == models.CardTuppenceBeresford || detective.Name == models.CardTommyBeresford)
	if !ds.HasDetective(detective.Name) && !isTuppencePairing {
		return nil, errInvalid("No se puede actualizar el set: El detective corresponde al set")
	}

	if _, err := e.Store.Cards().Update(ctx, detective.ID, store.CardUpdate{SetID: &ds.ID}); err != nil {
		return nil, err
	}
	if _, err := e.Store.Sets().Update(ctx, ds.ID, store.SetUpdate{TurnPlayed: &game.CurrentTurn}); err != nil {
		return nil, err
	}
	ds, err = e.Store.Sets().Get(ctx, ds.ID)
	if err != nil {
		return nil, err
	}

	e.chat(ctx, game.ID, fmt.Sprintf("%s agregó un %s a su set", player.Name, strings.ToUpper(strings.ReplaceAll(detective.Name, "-", " "))))

	name := setDisplayName(ds)
	canceled := false
	if !ds.HasAllDetectives(tuppencePair...) {
		canceled, err = e.notSoFastStatus(ctx, game, ds.ID)
		if err != nil {
			return nil, err
		}
	}

	if canceled {
		if ds.HasDetective(models.CardLadyEileenBundle) {
			e.chat(ctx, game.ID, fmt.Sprintf("Se canceló el set de %s y volvió a la mano del jugador", name))
			ids := make([]int64, len(ds.Detectives))
			clears := make([]store.CardUpdate, len(ds.Detectives))
			for i, d := range ds.Detectives {
				ids[i] = d.ID
				clears[i] = store.CardUpdate{ClearSetID: true}
			}
			if _, err := e.Store.Cards().UpdateBulk(ctx, ids, clears); err != nil {
				return nil, err
			}
		}
		if err := e.finalizeTurn(ctx, game.ID); err != nil {
			return nil, err
		}
		return ds, nil
	}

	next, err := e.setNextGameStatus(ctx, ds, game)
	if err != nil {
		return nil, err
	}
	if err := e.setPhase(ctx, game.ID, next, &player.ID); err != nil {
		return nil, err
	}
	return ds, nil
}

// SetAction supplies the player or secret a played set is waiting on.
func (e *Engine) SetAction(ctx context.Context, setID int64, token string, targetPlayer, targetSecret *int64) error {
	ds, err := e.Store.Sets().Get(ctx, setID)
	if err != nil {
		return errNotFound("No se puede realizar la accion: Set no encontrado")
	}
	game, err := e.Store.Games().Get(ctx, ds.GameID)
	if err != nil {
		return errNotFound("Juego no encontrado")
	}
	if ds.TurnPlayed != game.CurrentTurn {
		return errPrecondition("No se puede realizar la accion: Turno invalido")
	}
	var inAction *models.Player
	if game.PlayerInAction != nil {
		inAction, err = e.Store.Players().Get(ctx, *game.PlayerInAction)
		if err != nil {
			return err
		}
	}

	switch game.Status {
	case models.StatusWaitingForChoosePlayer:
		if targetPlayer == nil {
			return errInvalid("No se puede realizar la accion: Es necesario elegir un jugador")
		}
		if *targetPlayer == ds.Owner {
			return errNotAcceptable("No se puede realizar la accion: No se puede seleccionar a uno mismo")
		}
		target, err := e.Store.Players().Get(ctx, *targetPlayer)
		if err != nil {
			return errInvalid("No se puede realizar la accion: Es necesario seleccionar un jugador")
		}
		if target.GameID == nil || *target.GameID != game.ID {
			return errInvalid("No se puede realizar la accion: El jugador seleccionado no se encuentra en la partida")
		}
		if inAction == nil || inAction.Token != token {
			return errPrecondition("No se puede realizar la accion: Token invalido")
		}

		e.chat(ctx, game.ID, fmt.Sprintf("%s fué seleccionado para revelar un secreto", target.Name))
		return e.setPhase(ctx, game.ID, models.StatusWaitingForChooseSecret, targetPlayer)

	case models.StatusWaitingForChooseSecret:
		if targetSecret == nil {
			return errInvalid("No se puede realizar la accion: Es necesario elegir un secreto")
		}
		if inAction == nil || inAction.Token != token {
			return errPrecondition("No se puede realizar la accion: Token invalido")
		}
		secret, err := e.Store.Secrets().Get(ctx, *targetSecret)
		if err != nil {
			return errNotFound("No se puede realizar la accion: Secreto no encontrado")
		}
		if secret.GameID != game.ID {
			return errNotFound("No se puede realizar la accion: El secreto seleccionado no se encuentra en la partida")
		}

		ariadnePlayedThisTurn := false
		for _, d := range ds.Detectives {
			if d.Name == models.CardAriadneOliver && d.TurnPlayed != nil && *d.TurnPlayed == game.CurrentTurn {
				ariadnePlayedThisTurn = true
				break
			}
		}

		// Sets that point at a player make that player give up one of
		// their own secrets.
		if (ds.HasDetective(detectivesChoosePlayers...) || ariadnePlayedThisTurn) && secret.Owner != inAction.ID {
			return errPrecondition("No se puede realizar la accion: Se debe seleccionar un secreto propio")
		}

		if ds.HasDetective(models.CardParkerPyne) && !ariadnePlayedThisTurn {
			owner, err := e.Store.Players().Get(ctx, secret.Owner)
			if err != nil {
				return err
			}
			if owner.SocialDisgrace {
				no := false
				if _, err := e.Store.Players().Update(ctx, secret.Owner, store.PlayerUpdate{SocialDisgrace: &no}); err != nil {
					return err
				}
			}
			no := false
			if _, err := e.Store.Secrets().Update(ctx, secret.ID, store.SecretUpdate{Revealed: &no}); err != nil {
				return err
			}
			e.chat(ctx, game.ID, fmt.Sprintf("el secreto de %s fué ocultado", owner.Name))
		} else {
			owner, err := e.Store.Players().Get(ctx, secret.Owner)
			if err != nil {
				return err
			}
			outcome, err := e.RevealSecret(ctx, secret)
			if err != nil {
				return err
			}
			e.chat(ctx, game.ID, fmt.Sprintf("el secreto de %s fué revelado", owner.Name))
			if outcome == RevealGameFinalized {
				return nil
			}
			if ds.HasAllDetectives(models.CardMrSatterthwaite, models.CardHarleyQuinWildcard) {
				setOwner, err := e.Store.Players().Get(ctx, ds.Owner)
				if err != nil {
					return err
				}
				e.chat(ctx, game.ID, fmt.Sprintf("el secreto de %s fué robado y ocultado en los secretos de %s", owner.Name, setOwner.Name))
				no := false
				if _, err := e.Store.Secrets().Update(ctx, secret.ID, store.SecretUpdate{Owner: &ds.Owner, Revealed: &no}); err != nil {
					return err
				}
			}
		}

		return e.finalizeTurn(ctx, game.ID)

	default:
		return errInvalid("No se puede realizar la accion: Estado de partida invalido")
	}
}
