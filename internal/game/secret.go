package game

import (
	"context"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// RevealOutcome says how a reveal rippled through the game state.
type RevealOutcome string

const (
	RevealEffectApplied RevealOutcome = "effect_applied"
	RevealGameFinalized RevealOutcome = "game_finalized"
)

// RevealSecret flips a secret face up and applies the fallout: revealing the
// murderer ends the game on the spot, a player left without hidden secrets
// falls into social disgrace, and when every hidden secret belongs to the
// murderer's side the game is over too.
func (e *Engine) RevealSecret(ctx context.Context, secret *models.Secret) (RevealOutcome, error) {
	yes := true
	if _, err := e.Store.Secrets().Update(ctx, secret.ID, store.SecretUpdate{Revealed: &yes}); err != nil {
		return "", err
	}

	if secret.Name == models.SecretNameMurderer {
		st := models.StatusFinalized
		if _, err := e.Store.Games().Update(ctx, secret.GameID, store.GameUpdate{Status: &st, ClearPlayerInAction: true}); err != nil {
			return "", err
		}
		return RevealGameFinalized, nil
	}

	no := false
	left, err := e.Store.Secrets().Search(ctx, store.SecretFilter{Owner: &secret.Owner, Revealed: &no})
	if err != nil {
		return "", err
	}
	if len(left) == 0 {
		if _, err := e.Store.Players().Update(ctx, secret.Owner, store.PlayerUpdate{SocialDisgrace: &yes}); err != nil {
			return "", err
		}
	}

	hidden, err := e.Store.Secrets().Search(ctx, store.SecretFilter{GameID: &secret.GameID, Revealed: &no})
	if err != nil {
		return "", err
	}
	murderSide := map[int64]bool{}
	for _, s := range hidden {
		if s.Type == models.SecretMurderer || s.Type == models.SecretAccomplice {
			murderSide[s.Owner] = true
		}
	}
	allCovered := true
	for _, s := range hidden {
		if !murderSide[s.Owner] {
			allCovered = false
			break
		}
	}
	if allCovered {
		st := models.StatusFinalized
		if _, err := e.Store.Games().Update(ctx, secret.GameID, store.GameUpdate{Status: &st, ClearPlayerInAction: true}); err != nil {
			return "", err
		}
		return RevealGameFinalized, nil
	}
	return RevealEffectApplied, nil
}
