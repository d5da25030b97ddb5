package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const cardColumns = `id, game_id, name, card_type, content, owner_id, pile_order, turn_discarded, discarded_order, turn_played, set_id`

type cardRepo struct{ s *Store }

func scanCard(row pgx.Row) (*models.Card, error) {
	var c models.Card
	err := row.Scan(
		&c.ID, &c.GameID, &c.Name, &c.CardType, &c.Content, &c.Owner,
		&c.PileOrder, &c.TurnDiscarded, &c.DiscardedOrder, &c.TurnPlayed, &c.SetID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

const insertCard = `INSERT INTO cards (game_id, name, card_type, content, owner_id, pile_order, turn_discarded, discarded_order, turn_played, set_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

func (r cardRepo) Create(ctx context.Context, c *models.Card) error {
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertCard,
			c.GameID, c.Name, c.CardType, c.Content, c.Owner, c.PileOrder,
			c.TurnDiscarded, c.DiscardedOrder, c.TurnPlayed, c.SetID,
		).Scan(&c.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("card", "create", c.GameID, *c))
	return nil
}

func (r cardRepo) CreateBulk(ctx context.Context, cs []*models.Card) error {
	if len(cs) == 0 {
		return nil
	}
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		for _, c := range cs {
			err := tx.QueryRow(ctx, insertCard,
				c.GameID, c.Name, c.CardType, c.Content, c.Owner, c.PileOrder,
				c.TurnDiscarded, c.DiscardedOrder, c.TurnPlayed, c.SetID,
			).Scan(&c.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert cards: %w", err)
	}
	payload := make([]models.Card, len(cs))
	for i, c := range cs {
		payload[i] = *c
	}
	r.s.notifier.NotifyGame(cs[0].GameID, models.GameMessage("card", "create", cs[0].GameID, payload))
	return nil
}

func (r cardRepo) Get(ctx context.Context, id int64) (*models.Card, error) {
	q := `SELECT ` + cardColumns + ` FROM cards WHERE id=$1`
	return scanCard(r.s.pool.QueryRow(ctx, q, id))
}

func cardSetClause(b *qb, up store.CardUpdate) {
	if up.ClearOwner {
		b.raw("owner_id=NULL")
	} else if up.Owner != nil {
		b.add("owner_id=$%d", *up.Owner)
	}
	if up.Content != nil {
		b.add("content=$%d", *up.Content)
	}
	if up.ClearTurnDiscarded {
		b.raw("turn_discarded=NULL")
	} else if up.TurnDiscarded != nil {
		b.add("turn_discarded=$%d", *up.TurnDiscarded)
	}
	if up.ClearDiscardedOrder {
		b.raw("discarded_order=NULL")
	} else if up.DiscardedOrder != nil {
		b.add("discarded_order=$%d", *up.DiscardedOrder)
	}
	if up.ClearTurnPlayed {
		b.raw("turn_played=NULL")
	} else if up.TurnPlayed != nil {
		b.add("turn_played=$%d", *up.TurnPlayed)
	}
	if up.PileOrder != nil {
		b.add("pile_order=$%d", *up.PileOrder)
	}
	if up.ClearSetID {
		b.raw("set_id=NULL")
	} else if up.SetID != nil {
		b.add("set_id=$%d", *up.SetID)
	}
}

func (r cardRepo) updateInTx(ctx context.Context, tx pgx.Tx, id int64, up store.CardUpdate) (*models.Card, error) {
	var b qb
	cardSetClause(&b, up)
	if len(b.parts) == 0 {
		return scanCard(tx.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id=$1`, id))
	}
	q := fmt.Sprintf(`UPDATE cards SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, cardColumns)
	return scanCard(tx.QueryRow(ctx, q, append(b.args, id)...))
}

func (r cardRepo) Update(ctx context.Context, id int64, up store.CardUpdate) (*models.Card, error) {
	var c *models.Card
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		c, scanErr = r.updateInTx(ctx, tx, id, up)
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("card", "update", c.GameID, *c))
	return c, nil
}

func (r cardRepo) UpdateBulk(ctx context.Context, ids []int64, ups []store.CardUpdate) ([]*models.Card, error) {
	out := make([]*models.Card, 0, len(ids))
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		for i, id := range ids {
			c, err := r.updateInTx(ctx, tx, id, ups[i])
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		payload := make([]models.Card, len(out))
		for i, c := range out {
			payload[i] = *c
		}
		r.s.notifier.NotifyGame(out[0].GameID, models.GameMessage("card", "update", out[0].GameID, payload))
	}
	return out, nil
}

func (r cardRepo) Delete(ctx context.Context, id int64) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	err = r.s.tx(ctx, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `DELETE FROM cards WHERE id=$1`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("card", "delete", c.GameID, *c))
	return nil
}

func (r cardRepo) Search(ctx context.Context, f store.CardFilter) ([]*models.Card, error) {
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
	if f.OwnerIsNull != nil {
		if *f.OwnerIsNull {
			b.raw("owner_id IS NULL")
		} else {
			b.raw("owner_id IS NOT NULL")
		}
	}
	if f.Name != nil {
		b.add("name=$%d", *f.Name)
	}
	if f.Content != nil {
		b.add("content=$%d", *f.Content)
	}
	if len(f.CardTypeIn) > 0 {
		types := make([]string, len(f.CardTypeIn))
		for i, t := range f.CardTypeIn {
			types[i] = string(t)
		}
		b.add("card_type = ANY($%d)", types)
	}
	if f.TurnDiscarded != nil {
		b.add("turn_discarded=$%d", *f.TurnDiscarded)
	}
	if f.TurnDiscardedIsNull != nil {
		if *f.TurnDiscardedIsNull {
			b.raw("turn_discarded IS NULL")
		} else {
			b.raw("turn_discarded IS NOT NULL")
		}
	}
	if f.DiscardedOrderIsNull != nil {
		if *f.DiscardedOrderIsNull {
			b.raw("discarded_order IS NULL")
		} else {
			b.raw("discarded_order IS NOT NULL")
		}
	}
	if f.TurnPlayed != nil {
		b.add("turn_played=$%d", *f.TurnPlayed)
	}
	if f.TurnPlayedIsNull != nil {
		if *f.TurnPlayedIsNull {
			b.raw("turn_played IS NULL")
		} else {
			b.raw("turn_played IS NOT NULL")
		}
	}
	if f.SetID != nil {
		b.add("set_id=$%d", *f.SetID)
	}
	if f.SetIDIsNull != nil {
		if *f.SetIDIsNull {
			b.raw("set_id IS NULL")
		} else {
			b.raw("set_id IS NOT NULL")
		}
	}

	order := " ORDER BY id"
	switch f.Sort {
	case store.CardSortPileOrderDesc:
		order = " ORDER BY pile_order DESC"
	case store.CardSortDiscardedOrderDesc:
		order = " ORDER BY discarded_order DESC NULLS LAST"
	}
	q := `SELECT ` + cardColumns + ` FROM cards` + b.where() + order
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		q += fmt.Sprintf(" OFFSET %d", f.Offset)
	}
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
