package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

func TestCreateDetectiveSet(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	c1 := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[0].ID, 0)
	c2 := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[0].ID, 0)

	ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{c1.ID, c2.ID})
	require.NoError(t, err)
	require.Len(t, ds.Detectives, 2)

	for _, id := range []int64{c1.ID, c2.ID} {
		got := f.card(t, id)
		require.NotNil(t, got.SetID)
		assert.Equal(t, ds.ID, *got.SetID)
	}

	g := f.reload(t)
	assert.Equal(t, models.StatusWaitingForChooseSecret, g.Status)
	require.NotNil(t, g.PlayerInAction)
	assert.Equal(t, f.players[0].ID, *g.PlayerInAction)
	assert.Contains(t, f.chatLines(t), "jugador0 creó un set de HERCULE POIROT")
}

func TestCreateDetectiveSetGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t, 2)
		_, err := f.e.CreateDetectiveSet(ctx, "token-falso", nil)
		requireRuleError(t, err, KindUnauthorized, "Token inválido")
	})

	t.Run("social disgrace", func(t *testing.T) {
		f := newFixture(t, 2)
		yes := true
		_, err := f.st.Players().Update(ctx, f.players[0].ID, store.PlayerUpdate{SocialDisgrace: &yes})
		require.NoError(t, err)
		_, err = f.e.CreateDetectiveSet(ctx, "token-0", nil)
		requireRuleError(t, err, KindInvalid, "En desgracia social no se puede jugar un set")
	})

	t.Run("not turn start", func(t *testing.T) {
		f := newFixture(t, 2)
		st := models.StatusFinalizeTurn
		_, err := f.st.Games().Update(ctx, f.game.ID, store.GameUpdate{Status: &st})
		require.NoError(t, err)
		_, err = f.e.CreateDetectiveSet(ctx, "token-0", nil)
		requireRuleError(t, err, KindInvalid, "No se puede crear el set: Ya se realizo una accion")
	})

	t.Run("non detective card", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardCardTrade, models.CardTypeEvent, &f.players[0].ID, 0)
		_, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{c.ID})
		requireRuleError(t, err, KindInvalid, "Solo se pueden crear sets con cartas detective")
	})

	t.Run("someone else's card", func(t *testing.T) {
		f := newFixture(t, 2)
		c := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[1].ID, 0)
		_, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{c.ID})
		requireRuleError(t, err, KindUnauthorized, "No puedes usar cartas que no te pertenecen")
	})
}

// Pairing Tommy and Tuppence cannot be answered with a not-so-fast.
func TestCreateBeresfordPairSkipsWindow(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	tommy := f.giveCard(t, models.CardTommyBeresford, models.CardTypeDetective, &f.players[0].ID, 0)
	tuppence := f.giveCard(t, models.CardTuppenceBeresford, models.CardTypeDetective, &f.players[0].ID, 0)

	_, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{tommy.ID, tuppence.ID})
	require.NoError(t, err)

	assert.Empty(t, f.rn.gameMessages("timer"))
	assert.Equal(t, models.StatusWaitingForChoosePlayer, f.reload(t).Status)
}

func TestCreateSetCanceled(t *testing.T) {
	ctx := context.Background()

	t.Run("plain set stays on the table", func(t *testing.T) {
		f := newFixture(t, 2)
		marple := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
		nsf := f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, &f.players[1].ID, 0)

		f.cancelDuringWindow(t, nsf)
		ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{marple.ID})
		require.NoError(t, err)

		_, err = f.st.Sets().Get(ctx, ds.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
		assert.Contains(t, f.chatLines(t), "Se canceló el set de MISS MARPLE")
	})

	t.Run("lady eileen returns to hand", func(t *testing.T) {
		f := newFixture(t, 2)
		eileen := f.giveCard(t, models.CardLadyEileenBundle, models.CardTypeDetective, &f.players[0].ID, 0)
		nsf := f.giveCard(t, models.CardNotSoFast, models.CardTypeInstant, &f.players[1].ID, 0)

		f.cancelDuringWindow(t, nsf)
		ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{eileen.ID})
		require.NoError(t, err)

		_, err = f.st.Sets().Get(ctx, ds.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		got := f.card(t, eileen.ID)
		assert.Nil(t, got.SetID)
		require.NotNil(t, got.Owner)
		assert.Equal(t, f.players[0].ID, *got.Owner)
		assert.Contains(t, f.chatLines(t), "Se canceló el set de LADY EILEEN BUNDLE BRENT y volvió a la mano del jugador")
	})
}

func TestAddDetectiveToSet(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	first := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[0].ID}
	require.NoError(t, f.st.Sets().Create(ctx, ds))
	_, err := f.st.Cards().Update(ctx, first.ID, store.CardUpdate{SetID: &ds.ID})
	require.NoError(t, err)

	stranger := f.giveCard(t, models.CardHerculePoirot, models.CardTypeDetective, &f.players[0].ID, 0)
	_, err = f.e.AddDetectiveToSet(ctx, ds.ID, stranger.ID, "token-0")
	requireRuleError(t, err, KindInvalid, "No se puede actualizar el set: El detective corresponde al set")

	second := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	got, err := f.e.AddDetectiveToSet(ctx, ds.ID, second.ID, "token-0")
	require.NoError(t, err)
	assert.Len(t, got.Detectives, 2)

	g := f.reload(t)
	assert.Equal(t, models.StatusWaitingForChooseSecret, g.Status)
	assert.Contains(t, f.chatLines(t), "jugador0 agregó un MISS MARPLE a su set")
}

func TestAddDetectiveToSetGuards(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	_, err := f.e.AddDetectiveToSet(ctx, 999, 1, "token-0")
	requireRuleError(t, err, KindNotFound, "No se puede actualizar el set: Set no encontrado")

	card := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[0].ID, 0)
	ds := &models.DetectiveSet{GameID: f.game.ID, Owner: f.players[0].ID}
	require.NoError(t, f.st.Sets().Create(ctx, ds))
	_, err = f.st.Cards().Update(ctx, card.ID, store.CardUpdate{SetID: &ds.ID})
	require.NoError(t, err)

	_, err = f.e.AddDetectiveToSet(ctx, ds.ID, card.ID, "token-1")
	requireRuleError(t, err, KindUnauthorized, "No se puede actualizar el set: Token invalido")

	_, err = f.e.AddDetectiveToSet(ctx, ds.ID, card.ID, "token-0")
	requireRuleError(t, err, KindInvalid, "No se puede actualizar el set: Detective en set")

	theirs := f.giveCard(t, models.CardMissMarple, models.CardTypeDetective, &f.players[1].ID, 0)
	_, err = f.e.AddDetectiveToSet(ctx, ds.ID, theirs.ID, "token-0")
	requireRuleError(t, err, KindInvalid, "No se puede actualizar el set: No es dueño de la carta")
}

func TestSetActionChoosePlayerThenSecret(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	tommy := f.giveCard(t, models.CardTommyBeresford, models.CardTypeDetective, &f.players[0].ID, 0)
	tuppence := f.giveCard(t, models.CardTuppenceBeresford, models.CardTypeDetective, &f.players[0].ID, 0)
	ownSec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	otherSec := f.giveSecret(t, f.players[2].ID, models.SecretNameDefault, models.SecretOther, false)

	ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{tommy.ID, tuppence.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusWaitingForChoosePlayer, f.reload(t).Status)

	err = f.e.SetAction(ctx, ds.ID, "token-0", nil, nil)
	requireRuleError(t, err, KindInvalid, "No se puede realizar la accion: Es necesario elegir un jugador")

	err = f.e.SetAction(ctx, ds.ID, "token-0", &f.players[0].ID, nil)
	requireRuleError(t, err, KindNotAcceptable, "No se puede realizar la accion: No se puede seleccionar a uno mismo")

	err = f.e.SetAction(ctx, ds.ID, "token-1", &f.players[1].ID, nil)
	requireRuleError(t, err, KindPrecondition, "No se puede realizar la accion: Token invalido")

	require.NoError(t, f.e.SetAction(ctx, ds.ID, "token-0", &f.players[1].ID, nil))

	g := f.reload(t)
	require.Equal(t, models.StatusWaitingForChooseSecret, g.Status)
	require.NotNil(t, g.PlayerInAction)
	assert.Equal(t, f.players[1].ID, *g.PlayerInAction)
	assert.Contains(t, f.chatLines(t), "jugador1 fué seleccionado para revelar un secreto")

	// The chosen player has to give up one of their own secrets.
	err = f.e.SetAction(ctx, ds.ID, "token-1", nil, &otherSec.ID)
	requireRuleError(t, err, KindPrecondition, "No se puede realizar la accion: Se debe seleccionar un secreto propio")

	require.NoError(t, f.e.SetAction(ctx, ds.ID, "token-1", nil, &ownSec.ID))

	revealed, err := f.st.Secrets().Get(ctx, ownSec.ID)
	require.NoError(t, err)
	assert.True(t, revealed.Revealed)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
	assert.Contains(t, f.chatLines(t), "el secreto de jugador1 fué revelado")
}

func TestSetActionParkerPyneHidesSecret(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	pyne := f.giveCard(t, models.CardParkerPyne, models.CardTypeDetective, &f.players[0].ID, 0)
	shown := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, true)
	yes := true
	_, err := f.st.Players().Update(ctx, f.players[1].ID, store.PlayerUpdate{SocialDisgrace: &yes})
	require.NoError(t, err)

	ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{pyne.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusWaitingForChooseSecret, f.reload(t).Status)

	require.NoError(t, f.e.SetAction(ctx, ds.ID, "token-0", nil, &shown.ID))

	hidden, err := f.st.Secrets().Get(ctx, shown.ID)
	require.NoError(t, err)
	assert.False(t, hidden.Revealed)

	rescued, err := f.st.Players().Get(ctx, f.players[1].ID)
	require.NoError(t, err)
	assert.False(t, rescued.SocialDisgrace)
	assert.Contains(t, f.chatLines(t), "el secreto de jugador1 fué ocultado")
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
}

// Parker Pyne with nothing revealed has no secret to hide and closes the
// turn immediately.
func TestSetActionParkerPyneNothingToHide(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	pyne := f.giveCard(t, models.CardParkerPyne, models.CardTypeDetective, &f.players[0].ID, 0)
	f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)

	_, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{pyne.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
}

func TestSetActionSatterthwaiteWildcardSteals(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	satt := f.giveCard(t, models.CardMrSatterthwaite, models.CardTypeDetective, &f.players[0].ID, 0)
	wild := f.giveCard(t, models.CardHarleyQuinWildcard, models.CardTypeDetective, &f.players[0].ID, 0)
	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	f.giveSecret(t, f.players[2].ID, models.SecretNameDefault, models.SecretOther, false)

	ds, err := f.e.CreateDetectiveSet(ctx, "token-0", []int64{satt.ID, wild.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusWaitingForChoosePlayer, f.reload(t).Status)

	require.NoError(t, f.e.SetAction(ctx, ds.ID, "token-0", &f.players[1].ID, nil))
	require.NoError(t, f.e.SetAction(ctx, ds.ID, "token-1", nil, &sec.ID))

	stolen, err := f.st.Secrets().Get(ctx, sec.ID)
	require.NoError(t, err)
	assert.Equal(t, f.players[0].ID, stolen.Owner)
	assert.False(t, stolen.Revealed)
	assert.Contains(t, f.chatLines(t), "el secreto de jugador1 fué robado y ocultado en los secretos de jugador0")
	assert.Equal(t, models.StatusFinalizeTurn, f.reload(t).Status)
}
