package postgres

import "context"

// Schema is applied at startup; every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
    id               BIGSERIAL PRIMARY KEY,
    name             TEXT NOT NULL,
    status           TEXT NOT NULL,
    min_players      INT NOT NULL,
    max_players      INT NOT NULL,
    current_turn     INT NOT NULL DEFAULT 0,
    owner_id         BIGINT,
    ts               TIMESTAMPTZ,
    player_in_action BIGINT,
    password_hash    TEXT
);

CREATE TABLE IF NOT EXISTS players (
    id              BIGSERIAL PRIMARY KEY,
    game_id         BIGINT REFERENCES games(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    date_of_birth   DATE NOT NULL,
    avatar          TEXT NOT NULL DEFAULT '',
    social_disgrace BOOLEAN NOT NULL DEFAULT FALSE,
    token           TEXT NOT NULL,
    position        INT
);

CREATE TABLE IF NOT EXISTS detective_sets (
    id          BIGSERIAL PRIMARY KEY,
    game_id     BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    owner_id    BIGINT NOT NULL,
    turn_played INT NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
    id              BIGSERIAL PRIMARY KEY,
    game_id         BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    card_type       TEXT NOT NULL,
    content         TEXT NOT NULL DEFAULT '',
    owner_id        BIGINT,
    pile_order      INT NOT NULL DEFAULT 0,
    turn_discarded  INT,
    discarded_order INT,
    turn_played     INT,
    set_id          BIGINT REFERENCES detective_sets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS secrets (
    id          BIGSERIAL PRIMARY KEY,
    game_id     BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    content     TEXT NOT NULL DEFAULT '',
    secret_type TEXT NOT NULL,
    owner_id    BIGINT NOT NULL,
    revealed    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS events (
    id               BIGSERIAL PRIMARY KEY,
    game_id          BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    action           TEXT NOT NULL,
    turn_played      INT NOT NULL,
    player_id        BIGINT,
    target_player    BIGINT,
    target_set       BIGINT,
    target_card      BIGINT,
    target_secret    BIGINT,
    completed_action BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS chats (
    id         BIGSERIAL PRIMARY KEY,
    game_id    BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    owner_name TEXT,
    content    TEXT NOT NULL,
    sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_cards_game ON cards (game_id);
CREATE INDEX IF NOT EXISTS idx_events_game_turn ON events (game_id, turn_played, action);
CREATE INDEX IF NOT EXISTS idx_players_game ON players (game_id);
`

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}
