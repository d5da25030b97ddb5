package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deathcards-server/internal/models"
)

func TestRevealSecretMurdererEndsGame(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameMurderer, models.SecretMurderer, false)
	f.giveSecret(t, f.players[2].ID, models.SecretNameDefault, models.SecretOther, false)

	outcome, err := f.e.RevealSecret(ctx, sec)
	require.NoError(t, err)
	assert.Equal(t, RevealGameFinalized, outcome)

	g := f.reload(t)
	assert.Equal(t, models.StatusFinalized, g.Status)
	assert.Nil(t, g.PlayerInAction)
}

func TestRevealSecretSocialDisgrace(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	f.giveSecret(t, f.players[2].ID, models.SecretNameDefault, models.SecretOther, false)

	outcome, err := f.e.RevealSecret(ctx, sec)
	require.NoError(t, err)
	assert.Equal(t, RevealEffectApplied, outcome)

	p, err := f.st.Players().Get(ctx, f.players[1].ID)
	require.NoError(t, err)
	assert.True(t, p.SocialDisgrace)
	assert.Equal(t, models.StatusTurnStart, f.reload(t).Status)
}

func TestRevealSecretPlayerKeepsHiddenOnes(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)
	f.giveSecret(t, f.players[2].ID, models.SecretNameDefault, models.SecretOther, false)

	outcome, err := f.e.RevealSecret(ctx, sec)
	require.NoError(t, err)
	assert.Equal(t, RevealEffectApplied, outcome)

	p, err := f.st.Players().Get(ctx, f.players[1].ID)
	require.NoError(t, err)
	assert.False(t, p.SocialDisgrace)
}

// When the only hidden secrets left belong to the murderer's side, the
// innocents have nothing to lose anymore and the game ends.
func TestRevealSecretMurderSideWins(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.giveSecret(t, f.players[0].ID, models.SecretNameMurderer, models.SecretMurderer, false)
	f.giveSecret(t, f.players[0].ID, models.SecretNameDefault, models.SecretOther, false)
	sec := f.giveSecret(t, f.players[1].ID, models.SecretNameDefault, models.SecretOther, false)

	outcome, err := f.e.RevealSecret(ctx, sec)
	require.NoError(t, err)
	assert.Equal(t, RevealGameFinalized, outcome)
	assert.Equal(t, models.StatusFinalized, f.reload(t).Status)
}
