package game

import (
	"context"
	"math/rand"
	"sort"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

// agathaDayOfYear is September 15th, Agatha Christie's birthday. Seats are
// ordered by how close each player's birthday falls to it.
const agathaDayOfYear = 259

// deckSpec is the card list of one game, before the per-player not-so-fast
// adjustment.
var deckSpec = []struct {
	name   string
	typ    models.CardType
	amount int
}{
	{models.CardBlackmailed, models.CardTypeDevious, 1},
	{models.CardSocialFauxPas, models.CardTypeDevious, 3},
	{models.CardHarleyQuinWildcard, models.CardTypeDetective, 4},
	{models.CardAriadneOliver, models.CardTypeDetective, 3},
	{models.CardMissMarple, models.CardTypeDetective, 3},
	{models.CardParkerPyne, models.CardTypeDetective, 3},
	{models.CardTommyBeresford, models.CardTypeDetective, 2},
	{models.CardLadyEileenBundle, models.CardTypeDetective, 3},
	{models.CardTuppenceBeresford, models.CardTypeDetective, 2},
	{models.CardHerculePoirot, models.CardTypeDetective, 3},
	{models.CardMrSatterthwaite, models.CardTypeDetective, 2},
	{models.CardDelayTheMurderersEscape, models.CardTypeEvent, 3},
	{models.CardPointYourSuspicions, models.CardTypeEvent, 3},
	{models.CardDeadCardFolly, models.CardTypeEvent, 3},
	{models.CardAnotherVictim, models.CardTypeEvent, 2},
	{models.CardLookIntoTheAshes, models.CardTypeEvent, 3},
	{models.CardCardTrade, models.CardTypeEvent, 3},
	{models.CardAndThenThereWasOneMore, models.CardTypeEvent, 2},
	{models.CardEarlyTrainToPaddington, models.CardTypeEvent, 2},
	{models.CardCardsOffTheTable, models.CardTypeEvent, 1},
}

const notSoFastTotal = 10

// buildDeck shuffles the full deck, deals five cards to each player from the
// bottom of the pile and one not-so-fast each on top of it.
func buildDeck(gameID int64, players []*models.Player) []*models.Card {
	n := len(players)

	var cards []*models.Card
	for _, spec := range deckSpec {
		for i := 0; i < spec.amount; i++ {
			cards = append(cards, &models.Card{GameID: gameID, Name: spec.name, CardType: spec.typ})
		}
	}
	for i := 0; i < notSoFastTotal-n; i++ {
		cards = append(cards, &models.Card{GameID: gameID, Name: models.CardNotSoFast, CardType: models.CardTypeInstant})
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	for i := range cards {
		cards[i].PileOrder = i
	}

	// Deal hands from the bottom of the pile.
	for i := 0; i < n*5; i++ {
		owner := players[i%n].ID
		cards[len(cards)-1-i].Owner = &owner
	}

	// One not-so-fast each, stacked past the top of the pile.
	deckLen := len(cards)
	for i := 0; i < n; i++ {
		owner := players[(i+1)%n].ID
		cards = append(cards, &models.Card{
			GameID:    gameID,
			Name:      models.CardNotSoFast,
			CardType:  models.CardTypeInstant,
			PileOrder: deckLen + i,
			Owner:     &owner,
		})
	}
	return cards
}

// buildSecrets deals three secrets per player, hiding one murderer among
// them. Games of five or more also get an accomplice.
func buildSecrets(gameID int64, players []*models.Player) []*models.Secret {
	shuffled := make([]*models.Player, len(players))
	copy(shuffled, players)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	murderer := shuffled[0]
	accomplice := shuffled[1]

	var secrets []*models.Secret
	for _, p := range shuffled {
		count := 3
		if p.ID == murderer.ID || p.ID == accomplice.ID {
			count = 2
		}
		for i := 0; i < count; i++ {
			secrets = append(secrets, &models.Secret{
				GameID: gameID,
				Owner:  p.ID,
				Name:   models.SecretNameDefault,
				Type:   models.SecretOther,
			})
		}
	}
	secrets = append(secrets, &models.Secret{
		GameID: gameID,
		Owner:  murderer.ID,
		Name:   models.SecretNameMurderer,
		Type:   models.SecretMurderer,
	})
	if len(players) > 4 {
		secrets = append(secrets, &models.Secret{
			GameID: gameID,
			Owner:  accomplice.ID,
			Name:   models.SecretNameAccomplice,
			Type:   models.SecretAccomplice,
		})
	} else {
		secrets = append(secrets, &models.Secret{
			GameID: gameID,
			Owner:  accomplice.ID,
			Name:   models.SecretNameDefault,
			Type:   models.SecretOther,
		})
	}
	return secrets
}

// StartGame deals a waiting table and opens its first turn: seats are sorted
// by birthday proximity to Agatha Christie's, secrets and cards are dealt,
// and the top pile card is pre-discarded.
func (e *Engine) StartGame(ctx context.Context, gameID int64, token string) (*models.Game, error) {
	game, err := e.Store.Games().Get(ctx, gameID)
	if err != nil {
		return nil, errNotFound("No se pudo encontrar el juego")
	}
	players, err := e.playersInGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, errPrecondition("Se necesitan minimo dos jugadores para empezar")
	}
	if game.Status != models.StatusWaiting {
		return nil, errInvalid("Actualizacion de partida invalida")
	}
	if game.Owner == nil {
		return nil, errUnauthorized("Token invalido")
	}
	owner, err := e.Store.Players().Get(ctx, *game.Owner)
	if err != nil {
		return nil, err
	}
	if owner.Token != token {
		return nil, errUnauthorized("Token invalido")
	}

	sort.SliceStable(players, func(i, j int) bool {
		di := players[i].DateOfBirth.YearDay() - agathaDayOfYear
		dj := players[j].DateOfBirth.YearDay() - agathaDayOfYear
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		return di < dj
	})
	for i, p := range players {
		pos := i
		if _, err := e.Store.Players().Update(ctx, p.ID, store.PlayerUpdate{Position: &pos}); err != nil {
			return nil, err
		}
	}

	if err := e.Store.Secrets().CreateBulk(ctx, buildSecrets(gameID, players)); err != nil {
		return nil, err
	}
	if err := e.Store.Cards().CreateBulk(ctx, buildDeck(gameID, players)); err != nil {
		return nil, err
	}

	yes := true
	top, err := e.Store.Cards().Search(ctx, store.CardFilter{
		GameID:              &gameID,
		TurnDiscardedIsNull: &yes,
		OwnerIsNull:         &yes,
		Sort:                store.CardSortPileOrderDesc,
		Limit:               1,
	})
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		sentinel := models.SentinelTurnDiscarded
		zero := 0
		if _, err := e.Store.Cards().Update(ctx, top[0].ID, store.CardUpdate{TurnDiscarded: &sentinel, DiscardedOrder: &zero}); err != nil {
			return nil, err
		}
	}

	started := models.StatusStarted
	if _, err := e.Store.Games().Update(ctx, gameID, store.GameUpdate{Status: &started}); err != nil {
		return nil, err
	}
	turnStart := models.StatusTurnStart
	updated, err := e.Store.Games().Update(ctx, gameID, store.GameUpdate{Status: &turnStart})
	if err != nil {
		return nil, err
	}
	e.publishHistory(ctx, gameID, updated.CurrentTurn, &owner.ID, "game_started")
	return updated, nil
}
