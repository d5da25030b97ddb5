package models

// Message is the envelope pushed to connected clients whenever an entity
// mutates, plus the few synthetic messages not tied to a mutation (the
// cancellation countdown ticks and private devious reveals).
type Message struct {
	Model    string `json:"model"`
	Action   string `json:"action"`
	DestUser *int64 `json:"dest_user,omitempty"`
	DestGame *int64 `json:"dest_game"`
	Data     any    `json:"data"`
}

// GameMessage builds a Message addressed to every client of one game.
func GameMessage(model, action string, gameID int64, data any) Message {
	return Message{Model: model, Action: action, DestGame: &gameID, Data: data}
}
