package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func TestPlayCardGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown card name", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, "telegrama", models.CardTypeEvent, &f.players[0].ID, 0)
		err := f.e.PlayCard(ctx, c.ID, "token-0", Targets{})
		requireRuleError(t, err, KindNotFound, "No se encontró una acción para la carta 'telegrama'")
	})

	t.Run("social disgrace", func(t *testing.T) {
		f := newFixture(t, 2)
		yes := true
		_, err := f.st.Players().Update(ctx, f.players[0].ID, store.PlayerUpdate{SocialDisgrace: &yes})
		require.NoError(t, err)
		c := f.giveCard(t, models.CardCardsOffTheTable, models.CardTypeEvent, &f.players[0].ID, 0)
		err = f.e.PlayCard(ctx, c.ID, "token-0", Targets{})
		requireRuleError(t, err, KindInvalid, "No se pueden jugar cartas en desgracia social")
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardCardsOffTheTable, models.CardTypeEvent, &f.players[0].ID, 0)
		err := f.e.PlayCard(ctx, c.ID, "token-falso", Targets{})
		requireRuleError(t, err, KindUnauthorized, "Token invalido")
	})
}

func TestEarlyTrainBurnsSix(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	pile := make([]*models.Card, 10)
	for i := range pile {
		pile[i] = f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, nil, i)
	}
	train := f.giveCard(t, models.CardEarlyTrainToPaddington, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, train.ID, "token-0", Targets{}))

	// The 3-card draft survives, the next six burn, the card destroys itself.
	for i := 0; i < 3; i++ {
		c := f.card(t, pile[i].ID)
		assert.Nil(t, c.DiscardedOrder, "draft card %d", i)
	}
	for i := 3; i < 9; i++ {
		c := f.card(t, pile[i].ID)
		require.NotNil(t, c.DiscardedOrder, "burned card %d", i)
		require.NotNil(t, c.TurnDiscarded)
		assert.Equal(t, models.SentinelTurnDiscarded, *c.TurnDiscarded)
	}
	_, err := f.st.Cards().Get(ctx, train.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	g := f.reload(t)
	assert.Equal(t, models.StatusFinalizeTurn, g.Status)
}

func TestEarlyTrainDrainsPile(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, nil, i)
	}
	train := f.giveCard(t, models.CardEarlyTrainToPaddington, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, train.ID, "token-0", Targets{}))

	g := f.reload(t)
	assert.Equal(t, models.StatusFinalized, g.Status)
	assert.Nil(t, g.PlayerInAction)
}

func TestCardsOffTheTable(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	c := f.giveCard(t, models.CardCardsOffTheTable, models.CardTypeEvent, &f.players[0].ID, 0)
	nsf1 := f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, &f.players[1].ID, 0)
	nsf2 := f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, &f.players[1].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))
	g := f.reload(t)
	assert.Equal(t, models.StatusWaitingForChoosePlayer, g.Status)
	// This card opens no cancellation window.
	assert.Empty(t, f.rn.gameMessages("timer"))

	err := f.e.PlayCard(ctx, c.ID, "token-0", Targets{})
	requireRuleError(t, err, KindInvalid, "Cantidad erronea de jugadores objetivos")

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{Players: []int64{f.players[1].ID}}))

	for _, id := range []int64{nsf1.ID, nsf2.ID, c.ID} {
		got := f.card(t, id)
		assert.Nil(t, got.Owner)
		assert.NotNil(t, got.DiscardedOrder)
	}
	g = f.reload(t)
	assert.Equal(t, models.StatusFinalizeTurn, g.Status)
	assert.Contains(t, f.chatLines(t), "la carta CARDS OFF THE TABLE descartó 1 Not So Fast a jugador1")
}

func TestLookIntoTheAshesRetrieve(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	old := f.discarded(t, models.CardAnotherVictim, models.CardTypeEvent, 0, 0)
	ashes := f.giveCard(t, models.CardLookIntoTheAshes, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, ashes.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingForChooseDiscarded, f.reload(t).Status)

	err := f.e.PlayCard(ctx, ashes.ID, "token-0", Targets{})
	requireRuleError(t, err, KindInvalid, "Cantidad erronea de cartas objetivos")

	require.NoError(t, f.e.PlayCard(ctx, ashes.ID, "token-0", Targets{Cards: []int64{old.ID}}))

	got := f.card(t, old.ID)
	require.NotNil(t, got.Owner)
	assert.Equal(t, f.players[0].ID, *got.Owner)
	assert.Nil(t, got.DiscardedOrder)
	assert.Nil(t, got.TurnDiscarded)

	spent := f.card(t, ashes.ID)
	assert.NotNil(t, spent.DiscardedOrder)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
}

func TestLookIntoTheAshesEmptyPile(t *testing.T) {
	f := newFixture(t, 2)
	ashes := f.giveCard(t, models.CardLookIntoTheAshes, models.CardTypeEvent, &f.players[0].ID, 0)
	err := f.e.PlayCard(context.Background(), ashes.ID, "token-0", Targets{})
	requireRuleError(t, err, KindPrecondition, "No hay cartas en la pila de descarte, no se puede jugar")
}

func TestOneMoreWithoutRevealedSecrets(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	c := f.giveCard(t, models.CardAndThenThereWasOneMore, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))

	assert.Empty(t, f.rn.gameMessages("timer"))
	assert.NotNil(t, f.card(t, c.ID).DiscardedOrder)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "jugador0 jugó un AND THEN THERE WAS ONE MORE sin secretos revelados, se descarta")
}

func TestOneMoreRehidesSecret(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	yes := true
	_, err := f.st.Players().Update(ctx, f.players[1].ID, store.PlayerUpdate{SocialDisgrace: &yes})
	require.NoError(t, err)
	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, true)
	c := f.giveCard(t, models.CardAndThenThereWasOneMore, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingForChoosePlayerSecret, f.reload(t).Status)

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{
		Secrets: []int64{sec.ID},
		Players: []int64{f.players[2].ID},
	}))

	got, err := f.st.Secrets().Get(ctx, sec.ID)
	require.NoError(t, err)
	assert.Equal(t, f.players[2].ID, got.Owner)
	assert.False(t, got.Revealed)

	prev, err := f.st.Players().Get(ctx, f.players[1].ID)
	require.NoError(t, err)
	assert.False(t, prev.SocialDisgrace)

	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "El secreto revelado de jugador1 fue oculto en los secretos de jugador2")
}

func TestAnotherVictimWithoutSets(t *testing.T) {
	f := newFixture(t, 2)
	c := f.giveCard(t, models.CardAnotherVictim, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(context.Background(), c.ID, "token-0", Targets{}))

	assert.Empty(t, f.rn.gameMessages("timer"))
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "La carta ANOTHER VICTIM se jugó sin sets, se descarta")
}

func TestAnotherVictimSteal(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	marple := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[1].ID, 0)
	ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[1].ID}
	require.NoError(t, f.st.Sets().Create(ctx, ds))
	_, err := f.st.Cards().Update(ctx, marple.ID, store.CardUpdate{SetID: &ds.ID})
	require.NoError(t, err)

	c := f.giveCard(t, models.CardAnotherVictim, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingForChooseSet, f.reload(t).Status)

	err = f.e.PlayCard(ctx, c.ID, "token-0", Targets{})
	requireRuleError(t, err, KindInvalid, "No fue seleccionado el set a robar")

	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{Sets: []int64{ds.ID}}))

	stolen, err := f.st.Sets().Get(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, f.players[0].ID, stolen.Owner)

	// Miss Marple forces the thief to pick a secret right away.
	g := f.reload(t)
	assert.Equal(t, models.StatusWaitingForChooseSecret, g.Status)
	require.NotNil(t, g.PlayerInAction)
	assert.Equal(t, f.players[0].ID, *g.PlayerInAction)
	assert.NotNil(t, f.card(t, c.ID).DiscardedOrder)
}

func TestAnotherVictimOwnSetRejected(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[1].ID}
	require.NoError(t, f.st.Sets().Create(ctx, ds))
	own := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[0].ID}
	require.NoError(t, f.st.Sets().Create(ctx, own))

	c := f.giveCard(t, models.CardAnotherVictim, models.CardTypeEvent, &f.players[0].ID, 0)
	require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))

	err := f.e.PlayCard(ctx, c.ID, "token-0", Targets{Sets: []int64{own.ID}})
	requireRuleError(t, err, KindInvalid, "No se puede robar un set propio")
}

func TestAriadneOliver(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	t.Run("no sets to join", func(t *testing.T) {
		c := f.giveCard(t, models.CardAriadneOliver, models.CardTypeDetective, &f.players[0].ID, 0)
		err := f.e.PlayCard(ctx, c.ID, "token-0", Targets{})
		requireRuleError(t, err, KindInvalid, "No se puede jugar el set Ariadne Oliver: No hay sets para agregarse")
	})

	t.Run("attaches to an opposing set", func(t *testing.T) {
		poirot := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[1].ID, 0)
		ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[1].ID}
		require.NoError(t, f.st.Sets().Create(ctx, ds))
		_, err := f.st.Cards().Update(ctx, poirot.ID, store.CardUpdate{SetID: &ds.ID})
		require.NoError(t, err)

		c := f.giveCard(t, models.CardAriadneOliver, models.CardTypeDetective, &f.players[0].ID, 0)
		require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{}))
		require.Equal(t, models.StatusWaitingForChooseSet, f.reload(t).Status)

		require.NoError(t, f.e.PlayCard(ctx, c.ID, "token-0", Targets{Sets: []int64{ds.ID}}))

		got := f.card(t, c.ID)
		require.NotNil(t, got.SetID)
		assert.Equal(t, ds.ID, *got.SetID)

		// The set's owner has to answer with a secret.
		g := f.reload(t)
		assert.Equal(t, models.StatusWaitingForChooseSecret, g.Status)
		require.NotNil(t, g.PlayerInAction)
		assert.Equal(t, f.players[1].ID, *g.PlayerInAction)
	})
}

func TestCardTrade(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	trade := f.giveCard(t, models.CardCardTrade, models.CardTypeEvent, &f.players[0].ID, 0)
	mine := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	theirs := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[1].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, trade.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingForChoosePlayer, f.reload(t).Status)

	err := f.e.PlayCard(ctx, trade.ID, "token-0", Targets{Players: []int64{f.players[0].ID}})
	requireRuleError(t, err, KindInvalid, "No puedes señalarte a ti mismo")

	require.NoError(t, f.e.PlayCard(ctx, trade.ID, "token-0", Targets{Players: []int64{f.players[1].ID}}))
	require.Equal(t, models.StatusSelectCardToTrade, f.reload(t).Status)

	err = f.e.PlayCard(ctx, trade.ID, "token-0", Targets{Cards: []int64{theirs.ID}})
	requireRuleError(t, err, KindInvalid, "La carta señalada no te pertenece")

	require.NoError(t, f.e.PlayCard(ctx, trade.ID, "token-0", Targets{Cards: []int64{mine.ID}}))
	// One pick down, still waiting for the counterpart.
	require.Equal(t, models.StatusSelectCardToTrade, f.reload(t).Status)

	require.NoError(t, f.e.PlayCard(ctx, trade.ID, "token-1", Targets{Cards: []int64{theirs.ID}}))

	swappedMine := f.card(t, mine.ID)
	require.NotNil(t, swappedMine.Owner)
	assert.Equal(t, f.players[1].ID, *swappedMine.Owner)
	swappedTheirs := f.card(t, theirs.ID)
	require.NotNil(t, swappedTheirs.Owner)
	assert.Equal(t, f.players[0].ID, *swappedTheirs.Owner)

	assert.NotNil(t, f.card(t, trade.ID).DiscardedOrder)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "Se han intercambiado las cartas")
}

func TestDeadCardFolly(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	folly := f.giveCard(t, models.CardDeadCardFolly, models.CardTypeEvent, &f.players[0].ID, 0)
	hand := make([]*models.Card, 3)
	for i := range hand {
		hand[i] = f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[i].ID, 0)
	}

	require.NoError(t, f.e.PlayCard(ctx, folly.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingToChooseDirection, f.reload(t).Status)

	err := f.e.PlayCard(ctx, folly.ID, "token-0", Targets{Order: "diagonal"})
	requireRuleError(t, err, KindInvalid, "Debes elegir un orden")

	require.NoError(t, f.e.PlayCard(ctx, folly.ID, "token-0", Targets{Order: models.OrderClockwise}))
	require.Equal(t, models.StatusSelectCardToTrade, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "Los intercambios se realizaran a la derecha")

	for i := 0; i < 3; i++ {
		require.NoError(t, f.e.PlayCard(ctx, folly.ID, f.players[i].Token, Targets{Cards: []int64{hand[i].ID}}))
	}

	// Clockwise: each seat's pick moves one position up.
	for i := 0; i < 3; i++ {
		got := f.card(t, hand[i].ID)
		require.NotNil(t, got.Owner)
		assert.Equal(t, f.players[(i+1)%3].ID, *got.Owner)
	}
	assert.NotNil(t, f.card(t, folly.ID).DiscardedOrder)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "La carta DEAD CARD FOLLY realizó todos los intercambios a la derecha")
}

func TestDelayTheMurderersEscape(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	pile := make([]*models.Card, 5)
	for i := range pile {
		pile[i] = f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, nil, i)
	}
	d0 := f.discarded(t, models.CardAnotherVictim, models.CardTypeEvent, 0, 0)
	d1 := f.discarded(t, models.CardCardTrade, models.CardTypeEvent, 0, 1)
	d2 := f.discarded(t, models.CardMissMarple, models.CardTypeDetective, 0, 2)

	delay := f.giveCard(t, models.CardDelayTheMurderersEscape, models.CardTypeEvent, &f.players[0].ID, 0)

	require.NoError(t, f.e.PlayCard(ctx, delay.ID, "token-0", Targets{}))
	require.Equal(t, models.StatusWaitingForOrderDiscard, f.reload(t).Status)

	err := f.e.PlayCard(ctx, delay.ID, "token-0", Targets{})
	requireRuleError(t, err, KindPrecondition, "Se deben seleccionar cartas")

	require.NoError(t, f.e.PlayCard(ctx, delay.ID, "token-0", Targets{Cards: []int64{d0.ID, d2.ID}}))

	// The 3-card draft keeps the top of the pile; the recycled discards slot
	// in beneath it in the chosen order, unmentioned ones last.
	wantOrder := map[int64]int{
		pile[1].ID: 0,
		pile[0].ID: 1,
		d0.ID:      2,
		d2.ID:      3,
		d1.ID:      4,
		pile[2].ID: 5,
		pile[3].ID: 6,
		pile[4].ID: 7,
	}
	for id, want := range wantOrder {
		got := f.card(t, id)
		assert.Equal(t, want, got.PileOrder, "card %d", id)
		assert.Nil(t, got.DiscardedOrder)
		assert.Nil(t, got.TurnDiscarded)
	}

	_, err = f.st.Cards().Get(ctx, delay.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "jugador0 pasó cartas de la pila de descarte al mazo")
}
