package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const eventColumns = `id, game_id, action, turn_played, player_id, target_player, target_set, target_card, target_secret, completed_action`

type eventRepo struct{ s *Store }

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.GameID, &e.Action, &e.TurnPlayed, &e.PlayerID,
		&e.TargetPlayer, &e.TargetSet, &e.TargetCard, &e.TargetSecret, &e.CompletedAction,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r eventRepo) Create(ctx context.Context, e *models.Event) error {
	q := `INSERT INTO events (game_id, action, turn_played, player_id, target_player, target_set, target_card, target_secret, completed_action)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			e.GameID, e.Action, e.TurnPlayed, e.PlayerID, e.TargetPlayer,
			e.TargetSet, e.TargetCard, e.TargetSecret, e.CompletedAction,
		).Scan(&e.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r eventRepo) Get(ctx context.Context, id int64) (*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	return scanEvent(r.s.pool.QueryRow(ctx, q, id))
}

func (r eventRepo) Update(ctx context.Context, id int64, up store.EventUpdate) (*models.Event, error) {
	var b qb
	if up.CompletedAction != nil {
		b.add("completed_action=$%d", *up.CompletedAction)
	}
	if up.TargetCard != nil {
		b.add("target_card=$%d", *up.TargetCard)
	}
	if len(b.parts) == 0 {
		return r.Get(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE events SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, eventColumns)
	var e *models.Event
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		e, scanErr = scanEvent(tx.QueryRow(ctx, q, append(b.args, id)...))
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	r.s.notifier.NotifyGame(e.GameID, models.GameMessage("event_table", "update", e.GameID, *e))
	return e, nil
}

func (r eventRepo) Search(ctx context.Context, f store.EventFilter) ([]*models.Event, error) {
	var b qb
	if f.GameID != nil {
		b.add("game_id=$%d", *f.GameID)
	}
	if f.TurnPlayed != nil {
		b.add("turn_played=$%d", *f.TurnPlayed)
	}
	if f.PlayerID != nil {
		b.add("player_id=$%d", *f.PlayerID)
	}
	if f.Action != nil {
		b.add("action=$%d", *f.Action)
	}
	if len(f.ActionIn) > 0 {
		b.add("action = ANY($%d)", f.ActionIn)
	}
	if f.CompletedAction != nil {
		b.add("completed_action=$%d", *f.CompletedAction)
	}
	if f.TargetCard != nil {
		b.add("target_card=$%d", *f.TargetCard)
	}
	if f.TargetCardIsNull != nil {
		if *f.TargetCardIsNull {
			b.raw("target_card IS NULL")
		} else {
			b.raw("target_card IS NOT NULL")
		}
	}
	if f.TargetPlayerIsNull != nil {
		if *f.TargetPlayerIsNull {
			b.raw("target_player IS NULL")
		} else {
			b.raw("target_player IS NOT NULL")
		}
	}
	order := " ORDER BY id"
	if f.Sort == store.EventSortIDDesc {
		order = " ORDER BY id DESC"
	}
	q := `SELECT ` + eventColumns + ` FROM events` + b.where() + order
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
