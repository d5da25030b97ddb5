package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const playerColumns = `id, game_id, name, date_of_birth, avatar, social_disgrace, token, position`

type playerRepo struct{ s *Store }

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID, &p.GameID, &p.Name, &p.DateOfBirth, &p.Avatar,
		&p.SocialDisgrace, &p.Token, &p.Position,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r playerRepo) Create(ctx context.Context, p *models.Player) error {
	q := `INSERT INTO players (game_id, name, date_of_birth, avatar, social_disgrace, token, position)
	      VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			p.GameID, p.Name, p.DateOfBirth, p.Avatar, p.SocialDisgrace, p.Token, p.Position,
		).Scan(&p.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	if p.GameID != nil {
		r.s.notifier.NotifyGame(*p.GameID, models.GameMessage("player", "create", *p.GameID, *p))
	}
	r.s.notifier.NotifyLobby(models.Message{Model: "player", Action: "create", DestGame: p.GameID, Data: *p})
	return nil
}

func (r playerRepo) Get(ctx context.Context, id int64) (*models.Player, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE id=$1`
	return scanPlayer(r.s.pool.QueryRow(ctx, q, id))
}

func (r playerRepo) GetByToken(ctx context.Context, token string) (*models.Player, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE token=$1`
	return scanPlayer(r.s.pool.QueryRow(ctx, q, token))
}

func (r playerRepo) Update(ctx context.Context, id int64, up store.PlayerUpdate) (*models.Player, error) {
	var b qb
	if up.GameID != nil {
		b.add("game_id=$%d", *up.GameID)
	}
	if up.Position != nil {
		b.add("position=$%d", *up.Position)
	}
	if up.SocialDisgrace != nil {
		b.add("social_disgrace=$%d", *up.SocialDisgrace)
	}
	if up.Token != nil {
		b.add("token=$%d", *up.Token)
	}
	if len(b.parts) == 0 {
		return r.Get(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE players SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, playerColumns)
	var p *models.Player
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		p, scanErr = scanPlayer(tx.QueryRow(ctx, q, append(b.args, id)...))
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	if p.GameID != nil {
		r.s.notifier.NotifyGame(*p.GameID, models.GameMessage("player", "update", *p.GameID, *p))
	}
	return p, nil
}

func (r playerRepo) Delete(ctx context.Context, id int64) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	err = r.s.tx(ctx, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, `DELETE FROM players WHERE id=$1`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if p.GameID != nil {
		r.s.notifier.NotifyGame(*p.GameID, models.GameMessage("player", "delete", *p.GameID, *p))
	}
	r.s.notifier.NotifyLobby(models.Message{Model: "player", Action: "delete", DestGame: p.GameID, Data: *p})
	return nil
}

func (r playerRepo) Search(ctx context.Context, f store.PlayerFilter) ([]*models.Player, error) {
	var b qb
	if f.ID != nil {
		b.add("id=$%d", *f.ID)
	}
	if f.Name != nil {
		b.add("name=$%d", *f.Name)
	}
	if f.GameID != nil {
		b.add("game_id=$%d", *f.GameID)
	}
	if f.Position != nil {
		b.add("position=$%d", *f.Position)
	}
	q := `SELECT ` + playerColumns + ` FROM players` + b.where() + ` ORDER BY id`
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
