package game

import (
	"context"
	"time"

	"deathcards-server/internal/auth"
	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const (
	maxNameLength     = 12
	maxPasswordLength = 12
	maxChatLength     = 300
)

// CreateGameParams is the lobby form for opening a new table.
type CreateGameParams struct {
	GameName   string    `json:"game_name"`
	Password   string    `json:"password,omitempty"`
	MinPlayers int       `json:"min_players,omitempty"`
	MaxPlayers int       `json:"max_players"`
	PlayerName string    `json:"player_name"`
	Avatar     string    `json:"avatar"`
	Birthday   time.Time `json:"birthday"`
}

// CreateGame opens a table and seats its owner. The returned player carries
// the owner's session token.
func (e *Engine) CreateGame(ctx context.Context, p CreateGameParams) (*models.Game, *models.Player, error) {
	if p.MinPlayers != 0 && (p.MinPlayers < 2 || p.MinPlayers > 6) {
		return nil, nil, errInvalid("La cantidad minima de jugadores debe estar entre 2 y 6")
	}
	if p.MaxPlayers < 2 || p.MaxPlayers > 6 {
		return nil, nil, errInvalid("La cantidad maxima de jugadores debe estar entre 2 y 6")
	}
	if p.MaxPlayers < p.MinPlayers {
		return nil, nil, errInvalid("La cantidad maxima de jugadores no debe ser menor a la cantidad minima")
	}
	if len(p.Password) > maxPasswordLength {
		return nil, nil, errInvalid("La contraseña debe ser como maximo de 12 caracteres")
	}
	if len(p.GameName) > maxNameLength {
		return nil, nil, errInvalid("El nombre no debe superar los 12 caracteres")
	}

	player := &models.Player{
		Name:        p.PlayerName,
		DateOfBirth: p.Birthday,
		Avatar:      p.Avatar,
	}
	if err := e.Store.Players().Create(ctx, player); err != nil {
		return nil, nil, err
	}

	game := &models.Game{
		Name:       p.GameName,
		Status:     models.StatusWaiting,
		MinPlayers: p.MinPlayers,
		MaxPlayers: p.MaxPlayers,
		Owner:      &player.ID,
	}
	if p.Password != "" {
		hash, err := auth.HashPassword(p.Password)
		if err != nil {
			return nil, nil, err
		}
		game.PasswordHash = &hash
	}
	if err := e.Store.Games().Create(ctx, game); err != nil {
		return nil, nil, err
	}

	token, err := auth.CreateToken(player.ID, game.ID)
	if err != nil {
		return nil, nil, err
	}
	player, err = e.Store.Players().Update(ctx, player.ID, store.PlayerUpdate{GameID: &game.ID, Token: &token})
	if err != nil {
		return nil, nil, err
	}
	return game, player, nil
}

// DeleteGame tears a waiting table down. Only the owner may do it, and only
// before the game starts.
func (e *Engine) DeleteGame(ctx context.Context, gameID int64, token string) error {
	game, err := e.Store.Games().Get(ctx, gameID)
	if err != nil {
		return errNotFound("No se pudo encontrar el juego")
	}
	if game.Status != models.StatusWaiting {
		return errInvalid("No se puede eliminar una partida empezada")
	}
	if game.Owner == nil {
		return errUnauthorized("No se puede eliminar partida por: Token Invalido")
	}
	owner, err := e.Store.Players().Get(ctx, *game.Owner)
	if err != nil {
		return err
	}
	if owner.Token != token {
		return errUnauthorized("No se puede eliminar partida por: Token Invalido")
	}
	return e.Store.Games().Delete(ctx, gameID)
}

// JoinGameParams is the lobby form for taking a seat at a waiting table.
type JoinGameParams struct {
	PlayerName  string    `json:"player_name"`
	DateOfBirth time.Time `json:"player_date_of_birth"`
	Avatar      string    `json:"avatar"`
	Password    string    `json:"password,omitempty"`
}

// JoinGame seats a new player at a waiting table.
func (e *Engine) JoinGame(ctx context.Context, gameID int64, p JoinGameParams) (*models.Player, error) {
	if p.DateOfBirth.After(e.now()) {
		return nil, errInvalid("Fecha de nacimiento invalida")
	}
	if len(p.PlayerName) > maxNameLength {
		return nil, errInvalid("El nombre de jugador no debe superar los 12 caracteres")
	}
	game, err := e.Store.Games().Get(ctx, gameID)
	if err != nil {
		return nil, errNotFound("El juego a unirse no fue encontrado")
	}
	if game.Status != models.StatusWaiting {
		return nil, errInvalid("La partida ya ha comenzado")
	}
	if game.PasswordHash != nil {
		ok, err := auth.VerifyPassword(p.Password, *game.PasswordHash)
		if err != nil || !ok {
			return nil, errUnauthorized("Contraseña incorrecta")
		}
	}
	seated, err := e.playersInGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(seated) >= game.MaxPlayers {
		return nil, errInvalid("Partida Llena")
	}

	player := &models.Player{
		Name:        p.PlayerName,
		GameID:      &gameID,
		DateOfBirth: p.DateOfBirth,
		Avatar:      p.Avatar,
	}
	if err := e.Store.Players().Create(ctx, player); err != nil {
		return nil, err
	}
	token, err := auth.CreateToken(player.ID, gameID)
	if err != nil {
		return nil, err
	}
	return e.Store.Players().Update(ctx, player.ID, store.PlayerUpdate{Token: &token})
}

// LeaveGame removes a player from a table that has not started.
func (e *Engine) LeaveGame(ctx context.Context, playerID int64, token string) error {
	player, err := e.Store.Players().Get(ctx, playerID)
	if err != nil {
		return errNotFound("No se pudo encontrar el jugador a eliminar")
	}
	if player.Token != token {
		return errUnauthorized("No se puede abandonar partida por: Token Invalido")
	}
	if player.GameID != nil {
		game, err := e.Store.Games().Get(ctx, *player.GameID)
		if err == nil && game.Status == models.StatusStarted {
			return errInvalid("No se puede abandonar una partida en progreso")
		}
	}
	return e.Store.Players().Delete(ctx, playerID)
}

// PostChatMessage adds a player-authored line to the game feed. The feed is
// open only while the game is actually being played.
func (e *Engine) PostChatMessage(ctx context.Context, gameID, ownerID int64, content string) (*models.Chat, error) {
	game, err := e.Store.Games().Get(ctx, gameID)
	if err != nil {
		return nil, errNotFound("Juego no existente")
	}
	player, err := e.Store.Players().Get(ctx, ownerID)
	if err != nil {
		return nil, errNotFound("Jugador no existente")
	}
	if player.GameID == nil || *player.GameID != gameID {
		return nil, errPrecondition("El jugador debe ser de la partida")
	}
	if len(content) > maxChatLength {
		return nil, errPrecondition("El mensaje es demasiado largo")
	}
	if game.Status == models.StatusWaiting || game.Status == models.StatusFinalized {
		return nil, errPrecondition("No se pueden mandar mensajes en este momento de la partida")
	}

	msg := &models.Chat{
		GameID:    gameID,
		OwnerName: &player.Name,
		Content:   content,
		Timestamp: e.now(),
	}
	if err := e.Store.Chats().Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ChatHistory returns the feed of a game.
func (e *Engine) ChatHistory(ctx context.Context, gameID int64) ([]*models.Chat, error) {
	if _, err := e.Store.Games().Get(ctx, gameID); err != nil {
		return nil, errNotFound("Juego no existente")
	}
	return e.Store.Chats().Search(ctx, store.ChatFilter{GameID: &gameID})
}
