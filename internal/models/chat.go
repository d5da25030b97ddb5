package models

import "time"

// Chat is one line of the human-readable game feed.
type Chat struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	OwnerName *string   `json:"owner_name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
