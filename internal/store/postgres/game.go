package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const gameColumns = `id, name, status, min_players, max_players, current_turn, owner_id, ts, player_in_action, password_hash`

type gameRepo struct{ s *Store }

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID, &g.Name, &g.Status, &g.MinPlayers, &g.MaxPlayers,
		&g.CurrentTurn, &g.Owner, &g.Timestamp, &g.PlayerInAction, &g.PasswordHash,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (r gameRepo) Create(ctx context.Context, g *models.Game) error {
	q := `INSERT INTO games (name, status, min_players, max_players, current_turn, owner_id, ts, player_in_action, password_hash)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			g.Name, g.Status, g.MinPlayers, g.MaxPlayers, g.CurrentTurn,
			g.Owner, g.Timestamp, g.PlayerInAction, g.PasswordHash,
		).Scan(&g.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	r.s.notifier.NotifyLobby(models.Message{Model: "game", Action: "create", Data: *g})
	return nil
}

func (r gameRepo) Get(ctx context.Context, id int64) (*models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE id=$1`
	return scanGame(r.s.pool.QueryRow(ctx, q, id))
}

func (r gameRepo) Update(ctx context.Context, id int64, up store.GameUpdate) (*models.Game, error) {
	var b qb
	if up.Status != nil {
		b.add("status=$%d", *up.Status)
	}
	if up.CurrentTurn != nil {
		b.add("current_turn=$%d", *up.CurrentTurn)
	}
	if up.Timestamp != nil {
		b.add("ts=$%d", *up.Timestamp)
	}
	if up.ClearPlayerInAction {
		b.raw("player_in_action=NULL")
	} else if up.PlayerInAction != nil {
		b.add("player_in_action=$%d", *up.PlayerInAction)
	}
	if up.ClearOwner {
		b.raw("owner_id=NULL")
	} else if up.Owner != nil {
		b.add("owner_id=$%d", *up.Owner)
	}
	if len(b.parts) == 0 {
		return r.Get(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE games SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, gameColumns)
	var g *models.Game
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		g, scanErr = scanGame(tx.QueryRow(ctx, q, append(b.args, id)...))
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	r.s.notifier.NotifyGame(id, models.GameMessage("game", "update", id, *g))
	return g, nil
}

func (r gameRepo) Delete(ctx context.Context, id int64) error {
	g, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	err = r.s.tx(ctx, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `DELETE FROM games WHERE id=$1`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	r.s.notifier.NotifyGame(id, models.GameMessage("game", "delete", id, *g))
	r.s.notifier.NotifyLobby(models.Message{Model: "game", Action: "delete", Data: *g})
	return nil
}

func (r gameRepo) Search(ctx context.Context, f store.GameFilter) ([]*models.Game, error) {
	var b qb
	if f.ID != nil {
		b.add("id=$%d", *f.ID)
	}
	if f.Status != nil {
		b.add("status=$%d", *f.Status)
	}
	if f.PasswordIsNull != nil {
		if *f.PasswordIsNull {
			b.raw("password_hash IS NULL")
		} else {
			b.raw("password_hash IS NOT NULL")
		}
	}
	q := `SELECT ` + gameColumns + ` FROM games` + b.where() + ` ORDER BY id`
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
