package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const setColumns = `id, game_id, owner_id, turn_played`

type setRepo struct{ s *Store }

func scanSet(row pgx.Row) (*models.DetectiveSet, error) {
	var ds models.DetectiveSet
	err := row.Scan(&ds.ID, &ds.GameID, &ds.Owner, &ds.TurnPlayed)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ds, nil
}

// attach loads the set's detective cards in id order.
func (r setRepo) attach(ctx context.Context, ds *models.DetectiveSet) error {
	id := ds.ID
	cards, err := r.s.Cards().Search(ctx, store.CardFilter{SetID: &id})
	if err != nil {
		return err
	}
	ds.Detectives = cards
	return nil
}

func (r setRepo) Create(ctx context.Context, ds *models.DetectiveSet) error {
	q := `INSERT INTO detective_sets (game_id, owner_id, turn_played)
	      VALUES ($1, $2, $3) RETURNING id`
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, ds.GameID, ds.Owner, ds.TurnPlayed).Scan(&ds.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert detective set: %w", err)
	}
	r.s.notifier.NotifyGame(ds.GameID, models.GameMessage("detective_set", "create", ds.GameID, *ds))
	return nil
}

func (r setRepo) Get(ctx context.Context, id int64) (*models.DetectiveSet, error) {
	q := `SELECT ` + setColumns + ` FROM detective_sets WHERE id=$1`
	ds, err := scanSet(r.s.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.attach(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r setRepo) Update(ctx context.Context, id int64, up store.SetUpdate) (*models.DetectiveSet, error) {
	var b qb
	if up.Owner != nil {
		b.add("owner_id=$%d", *up.Owner)
	}
	if up.TurnPlayed != nil {
		b.add("turn_played=$%d", *up.TurnPlayed)
	}
	if len(b.parts) == 0 {
		return r.Get(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE detective_sets SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, setColumns)
	var ds *models.DetectiveSet
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		ds, scanErr = scanSet(tx.QueryRow(ctx, q, append(b.args, id)...))
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	if err := r.attach(ctx, ds); err != nil {
		return nil, err
	}
	r.s.notifier.NotifyGame(ds.GameID, models.GameMessage("detective_set", "update", ds.GameID, *ds))
	return ds, nil
}

// Delete removes the set and its cards (set_id cascades).
func (r setRepo) Delete(ctx context.Context, id int64) error {
	ds, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	err = r.s.tx(ctx, func(tx pgx.Tx) error {
		if _, execErr := tx.Exec(ctx, `DELETE FROM cards WHERE set_id=$1`, id); execErr != nil {
			return execErr
		}
		_, execErr := tx.Exec(ctx, `DELETE FROM detective_sets WHERE id=$1`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete detective set: %w", err)
	}
	r.s.notifier.NotifyGame(ds.GameID, models.GameMessage("detective_set", "delete", ds.GameID, *ds))
	return nil
}

func (r setRepo) Search(ctx context.Context, f store.SetFilter) ([]*models.DetectiveSet, error) {
	var b qb
	if f.ID != nil {
		b.add("id=$%d", *f.ID)
	}
	if f.GameID != nil {
		b.add("game_id=$%d", *f.GameID)
	}
	if f.Owner != nil {
		b.add("owner_id=$%d", *f.Owner)
	}
	if f.TurnPlayed != nil {
		b.add("turn_played=$%d", *f.TurnPlayed)
	}
	q := `SELECT ` + setColumns + ` FROM detective_sets` + b.where() + ` ORDER BY id`
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.DetectiveSet
	for rows.Next() {
		ds, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ds := range out {
		if err := r.attach(ctx, ds); err != nil {
			return nil, err
		}
	}
	return out, nil
}
