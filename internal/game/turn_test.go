package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func setStatus(t *testing.T, f *fixture, st models.GameStatus) {
	t.Helper()
	_, err := f.st.Games().Update(context.Background(), f.game.ID, store.GameUpdate{Status: &st})
	require.NoError(t, err)
}

func TestDiscardCards(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	c1 := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	c2 := f.giveCard(t, models.CardCardTrade, models.CardTypeEvent, &f.players[0].ID, 0)
	f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[0].ID, 0)

	updated, err := f.e.DiscardCards(ctx, []int64{c1.ID, c2.ID}, 0, "token-0")
	require.NoError(t, err)
	require.Len(t, updated, 2)

	for i, c := range updated {
		assert.Nil(t, c.Owner)
		require.NotNil(t, c.DiscardedOrder)
		assert.Equal(t, i, *c.DiscardedOrder)
		require.NotNil(t, c.TurnDiscarded)
		assert.Equal(t, 0, *c.TurnDiscarded)
	}
	assert.Equal(t, models.StatusFinalizeTurnDraft, f.reload(t).Status)
}

func TestDiscardCardsGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to discard", func(t *testing.T) {
		f := newFixture(t, 2)
		_, err := f.e.DiscardCards(ctx, nil, 0, "token-0")
		requireRuleError(t, err, KindUnprocessable, "No se mandaron cartas a descartar")
	})

	t.Run("wrong turn", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
		_, err := f.e.DiscardCards(ctx, []int64{c.ID}, 3, "token-0")
		requireRuleError(t, err, KindInvalid, "Se debe descartar en el turno actual")
	})

	t.Run("not your seat", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[1].ID, 0)
		_, err := f.e.DiscardCards(ctx, []int64{c.ID}, 0, "token-1")
		requireRuleError(t, err, KindPrecondition, "No se puede descartar la carta: No es tu turno")
	})

	t.Run("someone else's card", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[1].ID, 0)
		_, err := f.e.DiscardCards(ctx, []int64{c.ID}, 0, "token-0")
		requireRuleError(t, err, KindUnauthorized, "No se puede descartar la carta: Token invalido")
	})

	t.Run("card already in a set", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
		ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[0].ID}
		require.NoError(t, f.st.Sets().Create(ctx, ds))
		_, err := f.st.Cards().Update(ctx, c.ID, store.CardUpdate{SetID: &ds.ID})
		require.NoError(t, err)
		_, err = f.e.DiscardCards(ctx, []int64{c.ID}, 0, "token-0")
		requireRuleError(t, err, KindInvalid, "No se puede descartar una carta en set")
	})

	t.Run("disgraced player discards one at most", func(t *testing.T) {
		f := newFixture(t, 2)
		yes := true
		_, err := f.st.Players().Update(ctx, f.players[0].ID, store.PlayerUpdate{SocialDisgrace: &yes})
		require.NoError(t, err)
		c1 := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
		c2 := f.giveCard(t, models.CardCardTrade, models.CardTypeEvent, &f.players[0].ID, 0)
		_, err = f.e.DiscardCards(ctx, []int64{c1.ID, c2.ID}, 0, "token-0")
		requireRuleError(t, err, KindInvalid, "En desgracia social solo se permite descartar una carta")
	})
}

// An early train discarded onto the pile still fires; with the pile this
// short it runs the draw pile dry and ends the game.
func TestDiscardEarlyTrainFires(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	train := f.giveCard(t, models.CardEarlyTrainToPaddington, models.CardTypeEvent, &f.players[0].ID, 0)
	f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)

	_, err := f.e.DiscardCards(ctx, []int64{train.ID}, 0, "token-0")
	require.NoError(t, err)

	assert.Equal(t, models.StatusFinalized, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "se jugó la carta EARLY TRAIN TO PADDINGTON")
}

func TestTakeDraftCard(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	pile := make([]*models.Card, 5)
	for i := range pile {
		pile[i] = f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, nil, i)
	}
	setStatus(t, f, models.StatusFinalizeTurn)

	_, err := f.e.TakeDraftCard(ctx, pile[4].ID, f.players[0].ID, "token-0")
	requireRuleError(t, err, KindInvalid, "Solo se pueden agarrar cartas del draft")

	_, err = f.e.TakeDraftCard(ctx, pile[0].ID, f.players[1].ID, "token-1")
	requireRuleError(t, err, KindPrecondition, "No se puede agarrar la carta: No es tu turno")

	_, err = f.e.TakeDraftCard(ctx, pile[0].ID, f.players[0].ID, "token-1")
	requireRuleError(t, err, KindUnauthorized, "No se puede agarrar la carta: Token invalido")

	taken, err := f.e.TakeDraftCard(ctx, pile[0].ID, f.players[0].ID, "token-0")
	require.NoError(t, err)
	require.NotNil(t, taken.Owner)
	assert.Equal(t, f.players[0].ID, *taken.Owner)
	assert.Equal(t, models.StatusFinalizeTurnDraft, f.reload(t).Status)
}

func TestTakeDraftCardFullHand(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	}
	top := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, nil, 0)
	setStatus(t, f, models.StatusFinalizeTurn)

	_, err := f.e.TakeDraftCard(ctx, top.ID, f.players[0].ID, "token-0")
	requireRuleError(t, err, KindPrecondition, "No se pueden agarrar mas cartas")
}

func TestEndTurn(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	}
	pile := make([]*models.Card, 10)
	for i := range pile {
		pile[i] = f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, nil, i)
	}
	setStatus(t, f, models.StatusFinalizeTurnDraft)

	g, err := f.e.EndTurn(ctx, f.game.ID, 1, "token-0")
	require.NoError(t, err)
	assert.Equal(t, 1, g.CurrentTurn)
	assert.Equal(t, models.StatusTurnStart, g.Status)

	// The top-up skips the 3-card draft and fills the hand back to six.
	for _, c := range []*models.Card{pile[3], pile[4]} {
		got := f.card(t, c.ID)
		require.NotNil(t, got.Owner)
		assert.Equal(t, f.players[0].ID, *got.Owner)
	}
	hand, err := f.st.Cards().Search(ctx, store.CardFilter{GameID: &f.game.ID, Owner: &f.players[0].ID})
	require.NoError(t, err)
	assert.Len(t, hand, 6)
}

func TestEndTurnGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("no action taken yet", func(t *testing.T) {
		f := newFixture(t, 2)
		_, err := f.e.EndTurn(ctx, f.game.ID, 1, "token-0")
		requireRuleError(t, err, KindPreconditionRequired, "No se puede terminar turno sin descartar o jugar una carta")
	})

	t.Run("wrong token", func(t *testing.T) {
		f := newFixture(t, 2)
		setStatus(t, f, models.StatusFinalizeTurn)
		_, err := f.e.EndTurn(ctx, f.game.ID, 1, "token-1")
		requireRuleError(t, err, KindUnauthorized, "Token invalido")
	})
}

func TestEndTurnDrainsPile(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	}
	// Exactly the draft plus the two cards the top-up will take.
	for i := 0; i < 5; i++ {
		f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, nil, i)
	}
	setStatus(t, f, models.StatusFinalizeTurn)

	g, err := f.e.EndTurn(ctx, f.game.ID, 1, "token-0")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalized, g.Status)
}

func TestEndTurnSweepsSpentNotSoFast(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	}
	nsf := f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, nil, 0)
	content := "nsf"
	_, err := f.st.Cards().Update(ctx, nsf.ID, store.CardUpdate{Content: &content})
	require.NoError(t, err)
	require.NoError(t, f.st.Events().Create(ctx, &models.Event{
		GameID:     f.game.ID,
		TurnPlayed: 0,
		Action:     models.ActionToCancel,
		TargetCard: &nsf.ID,
	}))
	setStatus(t, f, models.StatusFinalizeTurn)

	_, err = f.e.EndTurn(ctx, f.game.ID, 1, "token-0")
	require.NoError(t, err)

	swept := f.card(t, nsf.ID)
	require.NotNil(t, swept.DiscardedOrder)
	require.NotNil(t, swept.TurnDiscarded)
	assert.Equal(t, 0, *swept.TurnDiscarded)
}
