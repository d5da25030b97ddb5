package models

import "time"

// Player is a seat in a game. Position is the 0-based turn rotation order:
// the active seat is current_turn mod player count. A player whose secrets
// are all revealed falls into social disgrace and may only discard one card
// per turn.
type Player struct {
	ID             int64     `json:"id"`
	GameID         *int64    `json:"game_id"`
	Name           string    `json:"name"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Avatar         string    `json:"avatar"`
	SocialDisgrace bool      `json:"social_disgrace"`
	Token          string    `json:"-"`
	Position       *int      `json:"position"`
}
