package models

import "time"

// GameStatus is the phase machine driving every action handler. Most card
// effects move the game through one or more waiting phases before the turn
// can finalize.
type GameStatus string

const (
	StatusWaiting                       GameStatus = "waiting"
	StatusStarted                       GameStatus = "started"
	StatusTurnStart                     GameStatus = "turn_start"
	StatusWaitingForChoosePlayer        GameStatus = "waiting_for_choose_player"
	StatusWaitingForChooseDiscarded     GameStatus = "waiting_for_choose_discarded"
	StatusWaitingForChoosePlayerSecret  GameStatus = "waiting_for_choose_player_and_secret"
	StatusWaitingForChooseSecret        GameStatus = "waiting_for_choose_secret"
	StatusWaitingForPointYourSuspicions GameStatus = "waiting_for_point_your_suspicions"
	StatusWaitingForChooseSecretPYS     GameStatus = "waiting_for_choose_secret_pys"
	StatusWaitingForChooseSet           GameStatus = "waiting_for_choose_set"
	StatusWaitingForCancelAction        GameStatus = "waiting_for_cancel_action"
	StatusWaitingForOrderDiscard        GameStatus = "waiting_for_order_discard"
	StatusWaitingToChooseDirection      GameStatus = "waiting_to_choose_direction"
	StatusSelectCardToTrade             GameStatus = "select_card_to_trade"
	StatusFinalizeTurn                  GameStatus = "finalize_turn"
	StatusFinalizeTurnDraft             GameStatus = "finalize_turn_draft"
	StatusFinalized                     GameStatus = "finalized"
)

// PlayerOrder directions, as chosen for dead-card-folly.
const (
	OrderClockwise     = "clockwise"
	OrderAntiClockwise = "counter-clockwise"
)

// Game is one match. Timestamp arms the cancellation window: rewriting it
// while a window is open restarts the countdown. PlayerInAction points at the
// seat a waiting phase expects input from; nil means anyone (or no one).
type Game struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Status         GameStatus `json:"status"`
	MinPlayers     int        `json:"min_players"`
	MaxPlayers     int        `json:"max_players"`
	CurrentTurn    int        `json:"current_turn"`
	Owner          *int64     `json:"owner"`
	Timestamp      *time.Time `json:"timestamp"`
	PlayerInAction *int64     `json:"player_in_action"`
	PasswordHash   *string    `json:"-"`
}
