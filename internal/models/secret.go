package models

// SecretType marks the guilty roles. Exactly one murderer secret exists per
// game, plus one accomplice in games of five or more players.
type SecretType string

const (
	SecretMurderer   SecretType = "murderer"
	SecretAccomplice SecretType = "accomplice"
	SecretOther      SecretType = "other"
)

// Well-known secret names.
const (
	SecretNameMurderer   = "youre-the-murderer"
	SecretNameAccomplice = "youre-the-accomplice"
	SecretNameDefault    = "varios"
)

type Secret struct {
	ID       int64      `json:"id"`
	GameID   int64      `json:"game_id"`
	Owner    int64      `json:"owner"`
	Name     string     `json:"name"`
	Content  string     `json:"content"`
	Revealed bool       `json:"revealed"`
	Type     SecretType `json:"type"`
}
