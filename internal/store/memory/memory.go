// Package memory implements store.Store with plain maps behind one mutex.
// It backs the test suites and single-node development; the postgres package
// is the production implementation.
package memory

import (
	"context"
	"sort"
	"sync"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

type Store struct {
	mu       sync.Mutex
	notifier store.Notifier

	nextID  int64
	games   map[int64]*models.Game
	players map[int64]*models.Player
	cards   map[int64]*models.Card
	secrets map[int64]*models.Secret
	sets    map[int64]*models.DetectiveSet
	events  map[int64]*models.Event
	chats   map[int64]*models.Chat
}

func New(n store.Notifier) *Store {
	if n == nil {
		n = store.NopNotifier{}
	}
	return &Store{
		notifier: n,
		nextID:   1,
		games:    make(map[int64]*models.Game),
		players:  make(map[int64]*models.Player),
		cards:    make(map[int64]*models.Card),
		secrets:  make(map[int64]*models.Secret),
		sets:     make(map[int64]*models.DetectiveSet),
		events:   make(map[int64]*models.Event),
		chats:    make(map[int64]*models.Chat),
	}
}

func (s *Store) Games() store.GameRepo     { return gameRepo{s} }
func (s *Store) Players() store.PlayerRepo { return playerRepo{s} }
func (s *Store) Cards() store.CardRepo     { return cardRepo{s} }
func (s *Store) Secrets() store.SecretRepo { return secretRepo{s} }
func (s *Store) Sets() store.SetRepo       { return setRepo{s} }
func (s *Store) Events() store.EventRepo   { return eventRepo{s} }
func (s *Store) Chats() store.ChatRepo     { return chatRepo{s} }

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- games ---

type gameRepo struct{ s *Store }

func (r gameRepo) Create(_ context.Context, g *models.Game) error {
	r.s.mu.Lock()
	g.ID = r.s.id()
	cp := *g
	r.s.games[g.ID] = &cp
	r.s.mu.Unlock()
	r.s.notifier.NotifyLobby(models.Message{Model: "game", Action: "create", Data: cp})
	return nil
}

func (r gameRepo) Get(_ context.Context, id int64) (*models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r gameRepo) Update(_ context.Context, id int64, up store.GameUpdate) (*models.Game, error) {
	r.s.mu.Lock()
	g, ok := r.s.games[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if up.Status != nil {
		g.Status = *up.Status
	}
	if up.CurrentTurn != nil {
		g.CurrentTurn = *up.CurrentTurn
	}
	if up.Timestamp != nil {
		ts := *up.Timestamp
		g.Timestamp = &ts
	}
	if up.ClearPlayerInAction {
		g.PlayerInAction = nil
	} else if up.PlayerInAction != nil {
		v := *up.PlayerInAction
		g.PlayerInAction = &v
	}
	if up.ClearOwner {
		g.Owner = nil
	} else if up.Owner != nil {
		v := *up.Owner
		g.Owner = &v
	}
	cp := *g
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(id, models.GameMessage("game", "update", id, cp))
	return &cp, nil
}

func (r gameRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	g, ok := r.s.games[id]
	if !ok {
		r.s.mu.Unlock()
		return store.ErrNotFound
	}
	cp := *g
	delete(r.s.games, id)
	for pid, p := range r.s.players {
		if p.GameID != nil && *p.GameID == id {
			delete(r.s.players, pid)
		}
	}
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(id, models.GameMessage("game", "delete", id, cp))
	r.s.notifier.NotifyLobby(models.Message{Model: "game", Action: "delete", Data: cp})
	return nil
}

func (r gameRepo) Search(_ context.Context, f store.GameFilter) ([]*models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Game
	for _, g := range sortedGames(r.s.games) {
		if f.ID != nil && g.ID != *f.ID {
			continue
		}
		if f.Status != nil && g.Status != *f.Status {
			continue
		}
		if f.PasswordIsNull != nil && (g.PasswordHash == nil) != *f.PasswordIsNull {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

// --- players ---

type playerRepo struct{ s *Store }

func (r playerRepo) Create(_ context.Context, p *models.Player) error {
	r.s.mu.Lock()
	p.ID = r.s.id()
	cp := *p
	r.s.players[p.ID] = &cp
	r.s.mu.Unlock()
	if p.GameID != nil {
		r.s.notifier.NotifyGame(*p.GameID, models.GameMessage("player", "create", *p.GameID, cp))
	}
	r.s.notifier.NotifyLobby(models.Message{Model: "player", Action: "create", DestGame: p.GameID, Data: cp})
	return nil
}

func (r playerRepo) Get(_ context.Context, id int64) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r playerRepo) GetByToken(_ context.Context, token string) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.players {
		if p.Token == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r playerRepo) Update(_ context.Context, id int64, up store.PlayerUpdate) (*models.Player, error) {
	r.s.mu.Lock()
	p, ok := r.s.players[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if up.GameID != nil {
		v := *up.GameID
		p.GameID = &v
	}
	if up.Position != nil {
		v := *up.Position
		p.Position = &v
	}
	if up.SocialDisgrace != nil {
		p.SocialDisgrace = *up.SocialDisgrace
	}
	if up.Token != nil {
		p.Token = *up.Token
	}
	cp := *p
	r.s.mu.Unlock()
	if cp.GameID != nil {
		r.s.notifier.NotifyGame(*cp.GameID, models.GameMessage("player", "update", *cp.GameID, cp))
	}
	return &cp, nil
}

func (r playerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	p, ok := r.s.players[id]
	if !ok {
		r.s.mu.Unlock()
		return store.ErrNotFound
	}
	cp := *p
	delete(r.s.players, id)
	r.s.mu.Unlock()
	if cp.GameID != nil {
		r.s.notifier.NotifyGame(*cp.GameID, models.GameMessage("player", "delete", *cp.GameID, cp))
	}
	r.s.notifier.NotifyLobby(models.Message{Model: "player", Action: "delete", DestGame: cp.GameID, Data: cp})
	return nil
}

func (r playerRepo) Search(_ context.Context, f store.PlayerFilter) ([]*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Player
	for _, p := range sortedPlayers(r.s.players) {
		if f.ID != nil && p.ID != *f.ID {
			continue
		}
		if f.Name != nil && p.Name != *f.Name {
			continue
		}
		if f.GameID != nil && (p.GameID == nil || *p.GameID != *f.GameID) {
			continue
		}
		if f.Position != nil && (p.Position == nil || *p.Position != *f.Position) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// --- cards ---

type cardRepo struct{ s *Store }

func (r cardRepo) Create(_ context.Context, c *models.Card) error {
	r.s.mu.Lock()
	c.ID = r.s.id()
	cp := *c
	r.s.cards[c.ID] = &cp
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("card", "create", c.GameID, cp))
	return nil
}

func (r cardRepo) CreateBulk(_ context.Context, cs []*models.Card) error {
	if len(cs) == 0 {
		return nil
	}
	r.s.mu.Lock()
	payload := make([]models.Card, 0, len(cs))
	for _, c := range cs {
		c.ID = r.s.id()
		cp := *c
		r.s.cards[c.ID] = &cp
		payload = append(payload, cp)
	}
	gameID := cs[0].GameID
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(gameID, models.GameMessage("card", "create", gameID, payload))
	return nil
}

func (r cardRepo) Get(_ context.Context, id int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func applyCardUpdate(c *models.Card, up store.CardUpdate) {
	if up.ClearOwner {
		c.Owner = nil
	} else if up.Owner != nil {
		v := *up.Owner
		c.Owner = &v
	}
	if up.Content != nil {
		c.Content = *up.Content
	}
	if up.ClearTurnDiscarded {
		c.TurnDiscarded = nil
	} else if up.TurnDiscarded != nil {
		v := *up.TurnDiscarded
		c.TurnDiscarded = &v
	}
	if up.ClearDiscardedOrder {
		c.DiscardedOrder = nil
	} else if up.DiscardedOrder != nil {
		v := *up.DiscardedOrder
		c.DiscardedOrder = &v
	}
	if up.ClearTurnPlayed {
		c.TurnPlayed = nil
	} else if up.TurnPlayed != nil {
		v := *up.TurnPlayed
		c.TurnPlayed = &v
	}
	if up.PileOrder != nil {
		c.PileOrder = *up.PileOrder
	}
	if up.ClearSetID {
		c.SetID = nil
	} else if up.SetID != nil {
		v := *up.SetID
		c.SetID = &v
	}
}

func (r cardRepo) Update(_ context.Context, id int64, up store.CardUpdate) (*models.Card, error) {
	r.s.mu.Lock()
	c, ok := r.s.cards[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	applyCardUpdate(c, up)
	cp := *c
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(cp.GameID, models.GameMessage("card", "update", cp.GameID, cp))
	return &cp, nil
}

func (r cardRepo) UpdateBulk(_ context.Context, ids []int64, ups []store.CardUpdate) ([]*models.Card, error) {
	r.s.mu.Lock()
	out := make([]*models.Card, 0, len(ids))
	payload := make([]models.Card, 0, len(ids))
	for i, id := range ids {
		c, ok := r.s.cards[id]
		if !ok {
			r.s.mu.Unlock()
			return nil, store.ErrNotFound
		}
		applyCardUpdate(c, ups[i])
		cp := *c
		out = append(out, &cp)
		payload = append(payload, cp)
	}
	r.s.mu.Unlock()
	if len(out) > 0 {
		r.s.notifier.NotifyGame(out[0].GameID, models.GameMessage("card", "update", out[0].GameID, payload))
	}
	return out, nil
}

func (r cardRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	c, ok := r.s.cards[id]
	if !ok {
		r.s.mu.Unlock()
		return store.ErrNotFound
	}
	cp := *c
	delete(r.s.cards, id)
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(cp.GameID, models.GameMessage("card", "delete", cp.GameID, cp))
	return nil
}

func matchCard(c *models.Card, f store.CardFilter) bool {
	if f.ID != nil && c.ID != *f.ID {
		return false
	}
	if f.GameID != nil && c.GameID != *f.GameID {
		return false
	}
	if f.Owner != nil && (c.Owner == nil || *c.Owner != *f.Owner) {
		return false
	}
	if f.OwnerIsNull != nil && (c.Owner == nil) != *f.OwnerIsNull {
		return false
	}
	if f.Name != nil && c.Name != *f.Name {
		return false
	}
	if f.Content != nil && c.Content != *f.Content {
		return false
	}
	if len(f.CardTypeIn) > 0 {
		found := false
		for _, t := range f.CardTypeIn {
			if c.CardType == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TurnDiscarded != nil && (c.TurnDiscarded == nil || *c.TurnDiscarded != *f.TurnDiscarded) {
		return false
	}
	if f.TurnDiscardedIsNull != nil && (c.TurnDiscarded == nil) != *f.TurnDiscardedIsNull {
		return false
	}
	if f.DiscardedOrderIsNull != nil && (c.DiscardedOrder == nil) != *f.DiscardedOrderIsNull {
		return false
	}
	if f.TurnPlayed != nil && (c.TurnPlayed == nil || *c.TurnPlayed != *f.TurnPlayed) {
		return false
	}
	if f.TurnPlayedIsNull != nil && (c.TurnPlayed == nil) != *f.TurnPlayedIsNull {
		return false
	}
	if f.SetID != nil && (c.SetID == nil || *c.SetID != *f.SetID) {
		return false
	}
	if f.SetIDIsNull != nil && (c.SetID == nil) != *f.SetIDIsNull {
		return false
	}
	return true
}

func (r cardRepo) Search(_ context.Context, f store.CardFilter) ([]*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Card
	for _, c := range sortedCards(r.s.cards) {
		if matchCard(c, f) {
			cp := *c
			out = append(out, &cp)
		}
	}
	switch f.Sort {
	case store.CardSortPileOrderDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PileOrder > out[j].PileOrder })
	case store.CardSortDiscardedOrderDesc:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DiscardedOrder, out[j].DiscardedOrder
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a > *b
		})
	}
	return window(out, f.Limit, f.Offset), nil
}

// --- secrets ---

type secretRepo struct{ s *Store }

func (r secretRepo) Create(_ context.Context, sec *models.Secret) error {
	r.s.mu.Lock()
	sec.ID = r.s.id()
	cp := *sec
	r.s.secrets[sec.ID] = &cp
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(sec.GameID, models.GameMessage("secret", "create", sec.GameID, cp))
	return nil
}

func (r secretRepo) CreateBulk(_ context.Context, ss []*models.Secret) error {
	if len(ss) == 0 {
		return nil
	}
	r.s.mu.Lock()
	payload := make([]models.Secret, 0, len(ss))
	for _, sec := range ss {
		sec.ID = r.s.id()
		cp := *sec
		r.s.secrets[sec.ID] = &cp
		payload = append(payload, cp)
	}
	gameID := ss[0].GameID
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(gameID, models.GameMessage("secret", "create", gameID, payload))
	return nil
}

func (r secretRepo) Get(_ context.Context, id int64) (*models.Secret, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.secrets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sec
	return &cp, nil
}

func (r secretRepo) Update(_ context.Context, id int64, up store.SecretUpdate) (*models.Secret, error) {
	r.s.mu.Lock()
	sec, ok := r.s.secrets[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if up.Owner != nil {
		sec.Owner = *up.Owner
	}
	if up.Revealed != nil {
		sec.Revealed = *up.Revealed
	}
	cp := *sec
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(cp.GameID, models.GameMessage("secret", "update", cp.GameID, cp))
	return &cp, nil
}

func (r secretRepo) Search(_ context.Context, f store.SecretFilter) ([]*models.Secret, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Secret
	for _, sec := range sortedSecrets(r.s.secrets) {
		if f.ID != nil && sec.ID != *f.ID {
			continue
		}
		if f.GameID != nil && sec.GameID != *f.GameID {
			continue
		}
		if f.Owner != nil && sec.Owner != *f.Owner {
			continue
		}
		if f.Revealed != nil && sec.Revealed != *f.Revealed {
			continue
		}
		if len(f.TypeIn) > 0 {
			found := false
			for _, t := range f.TypeIn {
				if sec.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		cp := *sec
		out = append(out, &cp)
	}
	return out, nil
}

// --- detective sets ---

type setRepo struct{ s *Store }

// attach loads the set's cards. Caller holds the lock.
func (r setRepo) attach(ds *models.DetectiveSet) *models.DetectiveSet {
	cp := *ds
	cp.Detectives = nil
	for _, c := range sortedCards(r.s.cards) {
		if c.SetID != nil && *c.SetID == ds.ID {
			cc := *c
			cp.Detectives = append(cp.Detectives, &cc)
		}
	}
	return &cp
}

func (r setRepo) Create(_ context.Context, ds *models.DetectiveSet) error {
	r.s.mu.Lock()
	ds.ID = r.s.id()
	cp := *ds
	cp.Detectives = nil
	r.s.sets[ds.ID] = &cp
	full := r.attach(&cp)
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(ds.GameID, models.GameMessage("detective_set", "create", ds.GameID, full))
	return nil
}

func (r setRepo) Get(_ context.Context, id int64) (*models.DetectiveSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ds, ok := r.s.sets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.attach(ds), nil
}

func (r setRepo) Update(_ context.Context, id int64, up store.SetUpdate) (*models.DetectiveSet, error) {
	r.s.mu.Lock()
	ds, ok := r.s.sets[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if up.Owner != nil {
		ds.Owner = *up.Owner
	}
	if up.TurnPlayed != nil {
		ds.TurnPlayed = *up.TurnPlayed
	}
	full := r.attach(ds)
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(full.GameID, models.GameMessage("detective_set", "update", full.GameID, full))
	return full, nil
}

func (r setRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	ds, ok := r.s.sets[id]
	if !ok {
		r.s.mu.Unlock()
		return store.ErrNotFound
	}
	full := r.attach(ds)
	for cid, c := range r.s.cards {
		if c.SetID != nil && *c.SetID == id {
			delete(r.s.cards, cid)
		}
	}
	delete(r.s.sets, id)
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(full.GameID, models.GameMessage("detective_set", "delete", full.GameID, full))
	return nil
}

func (r setRepo) Search(_ context.Context, f store.SetFilter) ([]*models.DetectiveSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.DetectiveSet
	for _, ds := range sortedSets(r.s.sets) {
		if f.ID != nil && ds.ID != *f.ID {
			continue
		}
		if f.GameID != nil && ds.GameID != *f.GameID {
			continue
		}
		if f.Owner != nil && ds.Owner != *f.Owner {
			continue
		}
		if f.TurnPlayed != nil && ds.TurnPlayed != *f.TurnPlayed {
			continue
		}
		out = append(out, r.attach(ds))
	}
	return out, nil
}

// --- events ---

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	e.ID = r.s.id()
	cp := *e
	r.s.events[e.ID] = &cp
	r.s.mu.Unlock()
	return nil
}

func (r eventRepo) Get(_ context.Context, id int64) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r eventRepo) Update(_ context.Context, id int64, up store.EventUpdate) (*models.Event, error) {
	r.s.mu.Lock()
	e, ok := r.s.events[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	if up.CompletedAction != nil {
		e.CompletedAction = *up.CompletedAction
	}
	if up.TargetCard != nil {
		v := *up.TargetCard
		e.TargetCard = &v
	}
	cp := *e
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(cp.GameID, models.GameMessage("event_table", "update", cp.GameID, cp))
	return &cp, nil
}

func (r eventRepo) Search(_ context.Context, f store.EventFilter) ([]*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Event
	for _, e := range sortedEvents(r.s.events) {
		if f.GameID != nil && e.GameID != *f.GameID {
			continue
		}
		if f.TurnPlayed != nil && e.TurnPlayed != *f.TurnPlayed {
			continue
		}
		if f.PlayerID != nil && (e.PlayerID == nil || *e.PlayerID != *f.PlayerID) {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if len(f.ActionIn) > 0 {
			found := false
			for _, a := range f.ActionIn {
				if e.Action == a {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if f.CompletedAction != nil && e.CompletedAction != *f.CompletedAction {
			continue
		}
		if f.TargetCard != nil && (e.TargetCard == nil || *e.TargetCard != *f.TargetCard) {
			continue
		}
		if f.TargetCardIsNull != nil && (e.TargetCard == nil) != *f.TargetCardIsNull {
			continue
		}
		if f.TargetPlayerIsNull != nil && (e.TargetPlayer == nil) != *f.TargetPlayerIsNull {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	if f.Sort == store.EventSortIDDesc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- chat ---

type chatRepo struct{ s *Store }

func (r chatRepo) Create(_ context.Context, c *models.Chat) error {
	r.s.mu.Lock()
	c.ID = r.s.id()
	cp := *c
	r.s.chats[c.ID] = &cp
	r.s.mu.Unlock()
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("chat", "create", c.GameID, cp))
	return nil
}

func (r chatRepo) Search(_ context.Context, f store.ChatFilter) ([]*models.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Chat
	for _, c := range sortedChats(r.s.chats) {
		if f.GameID != nil && c.GameID != *f.GameID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// sorted* return map values in insertion (id) order so searches behave like
// the SQL store's default ordering.

func sortedGames(m map[int64]*models.Game) []*models.Game {
	out := make([]*models.Game, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedPlayers(m map[int64]*models.Player) []*models.Player {
	out := make([]*models.Player, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedCards(m map[int64]*models.Card) []*models.Card {
	out := make([]*models.Card, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedSecrets(m map[int64]*models.Secret) []*models.Secret {
	out := make([]*models.Secret, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedSets(m map[int64]*models.DetectiveSet) []*models.DetectiveSet {
	out := make([]*models.DetectiveSet, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedChats(m map[int64]*models.Chat) []*models.Chat {
	out := make([]*models.Chat, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedEvents(m map[int64]*models.Event) []*models.Event {
	out := make([]*models.Event, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func window(cs []*models.Card, limit, offset int) []*models.Card {
	if offset > 0 {
		if offset >= len(cs) {
			return nil
		}
		cs = cs[offset:]
	}
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}
