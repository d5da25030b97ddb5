package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
	"deathcards-server/internal/store/memory"
)

// recordingNotifier collects pushed messages instead of writing to sockets.
type recordingNotifier struct {
	mu    sync.Mutex
	game  []models.Message
	lobby []models.Message
}

func (n *recordingNotifier) NotifyGame(_ int64, msg models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.game = append(n.game, msg)
}

func (n *recordingNotifier) NotifyLobby(msg models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lobby = append(n.lobby, msg)
}

func (n *recordingNotifier) gameMessages(model string) []models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Message
	for _, m := range n.game {
		if m.Model == model {
			out = append(out, m)
		}
	}
	return out
}

func newTestEngine(t *testing.T) (*Engine, *memory.Store, *recordingNotifier) {
	t.Helper()
	rn := &recordingNotifier{}
	st := memory.New(rn)
	e := New(st, nil)
	e.Notifier = rn
	// The window has to elapse quickly, but leave room for a goroutine to
	// submit a cancel mid-window.
	e.CancelWindow = 60 * time.Millisecond
	e.CancelTick = 5 * time.Millisecond
	return e, st, rn
}

type fixture struct {
	e       *Engine
	st      *memory.Store
	rn      *recordingNotifier
	game    *models.Game
	players []*models.Player
}

// newFixture seats n players in a game already at turn_start. Player i sits
// at position i with token "token-i"; the game's current turn is 0, so
// players[0] is the active seat.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	e, st, rn := newTestEngine(t)
	ctx := context.Background()

	g := &models.Game{Name: "mesa", Status: models.StatusTurnStart, MaxPlayers: 6}
	require.NoError(t, st.Games().Create(ctx, g))

	players := make([]*models.Player, n)
	for i := 0; i < n; i++ {
		pos := i
		p := &models.Player{
			Name:        fmt.Sprintf("jugador%d", i),
			GameID:      &g.ID,
			Token:       fmt.Sprintf("token-%d", i),
			Position:    &pos,
			DateOfBirth: time.Date(1990, time.March, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, st.Players().Create(ctx, p))
		players[i] = p
	}
	return &fixture{e: e, st: st, rn: rn, game: g, players: players}
}

func (f *fixture) reload(t *testing.T) *models.Game {
	t.Helper()
	g, err := f.st.Games().Get(context.Background(), f.game.ID)
	require.NoError(t, err)
	return g
}

// giveCard puts a card in a player's hand (or on the pile when owner is nil).
func (f *fixture) giveCard(t *testing.T, name string, typ models.CardType, owner *int64, pileOrder int) *models.Card {
	t.Helper()
	c := &models.Card{GameID: f.game.ID, Name: name, CardType: typ, Owner: owner, PileOrder: pileOrder}
	require.NoError(t, f.st.Cards().Create(context.Background(), c))
	return c
}

// discarded puts a card straight onto the discard pile.
func (f *fixture) discarded(t *testing.T, name string, typ models.CardType, turn, order int) *models.Card {
	t.Helper()
	c := &models.Card{GameID: f.game.ID, Name: name, CardType: typ, PileOrder: 0}
	require.NoError(t, f.st.Cards().Create(context.Background(), c))
	c, err := f.st.Cards().Update(context.Background(), c.ID, store.CardUpdate{TurnDiscarded: &turn, DiscardedOrder: &order})
	require.NoError(t, err)
	return c
}

func (f *fixture) giveSecret(t *testing.T, owner int64, name string, typ models.SecretType, revealed bool) *models.Secret {
	t.Helper()
	sec := &models.Secret{GameID: f.game.ID, Owner: owner, Name: name, Type: typ, Revealed: revealed}
	require.NoError(t, f.st.Secrets().Create(context.Background(), sec))
	return sec
}

func (f *fixture) card(t *testing.T, id int64) *models.Card {
	t.Helper()
	c, err := f.st.Cards().Get(context.Background(), id)
	require.NoError(t, err)
	return c
}

// cancelDuringWindow runs fn once the game enters the cancellation window.
// It polls because the window is opened by the handler under test.
func (f *fixture) cancelDuringWindow(t *testing.T, nsf *models.Card) {
	t.Helper()
	go func() {
		ctx := context.Background()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			g, err := f.st.Games().Get(ctx, f.game.ID)
			if err == nil && g.Status == models.StatusWaitingForCancelAction {
				no := false
				events, err := f.st.Events().Search(ctx, store.EventFilter{
					GameID:          &g.ID,
					TurnPlayed:      &g.CurrentTurn,
					Action:          ptr(models.ActionToCancel),
					CompletedAction: &no,
					Sort:            store.EventSortIDDesc,
					Limit:           1,
				})
				if err == nil && len(events) > 0 {
					owner, err := f.st.Players().Get(ctx, *nsf.Owner)
					if err != nil {
						return
					}
					_ = f.e.SubmitCancel(ctx, events[0].ID, nsf.ID, owner.Token)
					return
				}
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()
}

// chatLines returns every feed line posted to the game so far.
func (f *fixture) chatLines(t *testing.T) []string {
	t.Helper()
	chats, err := f.st.Chats().Search(context.Background(), store.ChatFilter{GameID: &f.game.ID})
	require.NoError(t, err)
	lines := make([]string, len(chats))
	for i, c := range chats {
		lines[i] = c.Content
	}
	return lines
}

func requireRuleError(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	var re *Error
	require.ErrorAs(t, err, &re)
	require.Equal(t, kind, re.Kind)
	require.Equal(t, msg, re.Msg)
}

func ptr[T any](v T) *T { return &v }
