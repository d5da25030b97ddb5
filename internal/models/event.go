package models

// Event action tags. These strings are the wire format of the multi-step
// sub-protocols; they are matched verbatim across requests.
const (
	ActionToCancel                   = "to_cancel"
	ActionCanceledTimes              = "canceled_times"
	ActionCardTrade                  = "card_trade"
	ActionDeadCardFollyTrade         = "dead_card_folly_trade"
	ActionPointYourSuspicions        = "point_your_suspicions"
	ActionDeadCardFollyPrefix        = "dead_card_folly_"
	ActionDeadCardFollyClockwise     = "dead_card_folly_clockwise"
	ActionDeadCardFollyAntiClockwise = "dead_card_folly_counter-clockwise"
)

// Event is the append-only scratch log for multi-step protocols that need to
// correlate several players' sequential choices within one turn (votes,
// trades, cancellation counts). Rows are created by handlers and never
// deleted; they are scoped by (game_id, turn_played, action).
//
// The canceled_times row abuses TargetCard as the shared cancellation
// counter for one window invocation.
type Event struct {
	ID              int64  `json:"id"`
	GameID          int64  `json:"game_id"`
	Action          string `json:"action"`
	TurnPlayed      int    `json:"turn_played"`
	PlayerID        *int64 `json:"player_id"`
	TargetPlayer    *int64 `json:"target_player"`
	TargetSet       *int64 `json:"target_set"`
	TargetCard      *int64 `json:"target_card"`
	TargetSecret    *int64 `json:"target_secret"`
	CompletedAction bool   `json:"completed_action"`
}
