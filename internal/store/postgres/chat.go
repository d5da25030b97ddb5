package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

type chatRepo struct{ s *Store }

func (r chatRepo) Create(ctx context.Context, c *models.Chat) error {
	q := `INSERT INTO chats (game_id, owner_name, content, sent_at)
	      VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, c.GameID, c.OwnerName, c.Content, c.Timestamp).Scan(&c.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	r.s.notifier.NotifyGame(c.GameID, models.GameMessage("chat", "create", c.GameID, *c))
	return nil
}

func (r chatRepo) Search(ctx context.Context, f store.ChatFilter) ([]*models.Chat, error) {
	var b qb
	if f.GameID != nil {
		b.add("game_id=$%d", *f.GameID)
	}
	q := `SELECT id, game_id, owner_name, content, sent_at FROM chats` + b.where() + ` ORDER BY id`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.GameID, &c.OwnerName, &c.Content, &c.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
