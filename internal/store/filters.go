package store

import (
	"time"

	"deathcards-server/internal/models"
)

// Filters follow the original controllers' query shapes: nil pointer fields
// are "don't care", the *IsNull variants match NULL-ness explicitly.

type GameFilter struct {
	ID             *int64
	Status         *models.GameStatus
	PasswordIsNull *bool
}

type PlayerFilter struct {
	ID       *int64
	Name     *string
	GameID   *int64
	Position *int
}

// CardSort selects the ordering of a card search. The zero value applies no
// ordering.
type CardSort int

const (
	CardSortNone CardSort = iota
	CardSortPileOrderDesc
	CardSortDiscardedOrderDesc
)

type CardFilter struct {
	ID                   *int64
	GameID               *int64
	Owner                *int64
	OwnerIsNull          *bool
	Name                 *string
	Content              *string
	CardTypeIn           []models.CardType
	TurnDiscarded        *int
	TurnDiscardedIsNull  *bool
	DiscardedOrderIsNull *bool
	TurnPlayed           *int
	TurnPlayedIsNull     *bool
	SetID                *int64
	SetIDIsNull          *bool

	Sort   CardSort
	Limit  int
	Offset int
}

type SecretFilter struct {
	ID       *int64
	GameID   *int64
	Owner    *int64
	Revealed *bool
	TypeIn   []models.SecretType
}

type SetFilter struct {
	ID         *int64
	GameID     *int64
	Owner      *int64
	TurnPlayed *int
}

// EventSort selects the ordering of an event search. Insertion order (the id
// sequence) is what makes "latest to_cancel" well defined.
type EventSort int

const (
	EventSortNone EventSort = iota
	EventSortIDDesc
)

type EventFilter struct {
	GameID             *int64
	TurnPlayed         *int
	PlayerID           *int64
	Action             *string
	ActionIn           []string
	CompletedAction    *bool
	TargetCard         *int64
	TargetCardIsNull   *bool
	TargetPlayerIsNull *bool

	Sort  EventSort
	Limit int
}

type ChatFilter struct {
	GameID *int64
	Limit  int
}

// Update structs carry partial writes. A nil field leaves the column alone;
// the Clear* flags write NULL.

type GameUpdate struct {
	Status              *models.GameStatus
	CurrentTurn         *int
	Timestamp           *time.Time
	PlayerInAction      *int64
	ClearPlayerInAction bool
	Owner               *int64
	ClearOwner          bool
}

type PlayerUpdate struct {
	GameID         *int64
	Position       *int
	SocialDisgrace *bool
	Token          *string
}

type CardUpdate struct {
	Owner               *int64
	ClearOwner          bool
	Content             *string
	TurnDiscarded       *int
	ClearTurnDiscarded  bool
	DiscardedOrder      *int
	ClearDiscardedOrder bool
	TurnPlayed          *int
	ClearTurnPlayed     bool
	PileOrder           *int
	SetID               *int64
	ClearSetID          bool
}

type SecretUpdate struct {
	Owner    *int64
	Revealed *bool
}

type SetUpdate struct {
	Owner      *int64
	TurnPlayed *int
}

type EventUpdate struct {
	CompletedAction *bool
	TargetCard      *int64
}
