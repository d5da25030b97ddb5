// Package store defines the typed entity store the game engine runs against.
// Every successful mutation is expected to trigger a best-effort push to the
// connected clients of the affected game; implementations take a Notifier and
// call it after each write.
package store

import (
	"context"
	"errors"

	"deathcards-server/internal/models"
)

// ErrNotFound is returned by Get/Update/Delete when the id does not exist.
var ErrNotFound = errors.New("entity not found")

// Notifier fans messages out to connected clients. Implementations must be
// best-effort and non-blocking from the caller's point of view.
type Notifier interface {
	NotifyGame(gameID int64, msg models.Message)
	NotifyLobby(msg models.Message)
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) NotifyGame(int64, models.Message) {}
func (NopNotifier) NotifyLobby(models.Message)       {}

// Store aggregates the per-entity repositories.
type Store interface {
	Games() GameRepo
	Players() PlayerRepo
	Cards() CardRepo
	Secrets() SecretRepo
	Sets() SetRepo
	Events() EventRepo
	Chats() ChatRepo
}

type GameRepo interface {
	Create(ctx context.Context, g *models.Game) error
	Get(ctx context.Context, id int64) (*models.Game, error)
	Update(ctx context.Context, id int64, up GameUpdate) (*models.Game, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f GameFilter) ([]*models.Game, error)
}

type PlayerRepo interface {
	Create(ctx context.Context, p *models.Player) error
	Get(ctx context.Context, id int64) (*models.Player, error)
	GetByToken(ctx context.Context, token string) (*models.Player, error)
	Update(ctx context.Context, id int64, up PlayerUpdate) (*models.Player, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f PlayerFilter) ([]*models.Player, error)
}

type CardRepo interface {
	Create(ctx context.Context, c *models.Card) error
	CreateBulk(ctx context.Context, cs []*models.Card) error
	Get(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, up CardUpdate) (*models.Card, error)
	// UpdateBulk applies ups[i] to ids[i] as one atomic write and emits a
	// single notification for the whole batch.
	UpdateBulk(ctx context.Context, ids []int64, ups []CardUpdate) ([]*models.Card, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f CardFilter) ([]*models.Card, error)
}

type SecretRepo interface {
	Create(ctx context.Context, s *models.Secret) error
	CreateBulk(ctx context.Context, ss []*models.Secret) error
	Get(ctx context.Context, id int64) (*models.Secret, error)
	Update(ctx context.Context, id int64, up SecretUpdate) (*models.Secret, error)
	Search(ctx context.Context, f SecretFilter) ([]*models.Secret, error)
}

type SetRepo interface {
	Create(ctx context.Context, s *models.DetectiveSet) error
	// Get loads the set with its detective cards attached.
	Get(ctx context.Context, id int64) (*models.DetectiveSet, error)
	Update(ctx context.Context, id int64, up SetUpdate) (*models.DetectiveSet, error)
	// Delete removes the set and every card still referencing it.
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f SetFilter) ([]*models.DetectiveSet, error)
}

type EventRepo interface {
	Create(ctx context.Context, e *models.Event) error
	Get(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, id int64, up EventUpdate) (*models.Event, error)
	Search(ctx context.Context, f EventFilter) ([]*models.Event, error)
}

type ChatRepo interface {
	Create(ctx context.Context, c *models.Chat) error
	Search(ctx context.Context, f ChatFilter) ([]*models.Chat, error)
}
