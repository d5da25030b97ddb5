package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deathcards-server/internal/models"
	"deathcards-server/internal/store"
)

const secretColumns = `id, game_id, name, content, secret_type, owner_id, revealed`

type secretRepo struct{ s *Store }

func scanSecret(row pgx.Row) (*models.Secret, error) {
	var sec models.Secret
	err := row.Scan(&sec.ID, &sec.GameID, &sec.Name, &sec.Content, &sec.Type, &sec.Owner, &sec.Revealed)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sec, nil
}

const insertSecret = `INSERT INTO secrets (game_id, name, content, secret_type, owner_id, revealed)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

func (r secretRepo) Create(ctx context.Context, sec *models.Secret) error {
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertSecret,
			sec.GameID, sec.Name, sec.Content, sec.Type, sec.Owner, sec.Revealed,
		).Scan(&sec.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert secret: %w", err)
	}
	r.s.notifier.NotifyGame(sec.GameID, models.GameMessage("secret", "create", sec.GameID, *sec))
	return nil
}

func (r secretRepo) CreateBulk(ctx context.Context, ss []*models.Secret) error {
	if len(ss) == 0 {
		return nil
	}
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		for _, sec := range ss {
			err := tx.QueryRow(ctx, insertSecret,
				sec.GameID, sec.Name, sec.Content, sec.Type, sec.Owner, sec.Revealed,
			).Scan(&sec.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert secrets: %w", err)
	}
	payload := make([]models.Secret, len(ss))
	for i, sec := range ss {
		payload[i] = *sec
	}
	r.s.notifier.NotifyGame(ss[0].GameID, models.GameMessage("secret", "create", ss[0].GameID, payload))
	return nil
}

func (r secretRepo) Get(ctx context.Context, id int64) (*models.Secret, error) {
	q := `SELECT ` + secretColumns + ` FROM secrets WHERE id=$1`
	return scanSecret(r.s.pool.QueryRow(ctx, q, id))
}

func (r secretRepo) Update(ctx context.Context, id int64, up store.SecretUpdate) (*models.Secret, error) {
	var b qb
	if up.Owner != nil {
		b.add("owner_id=$%d", *up.Owner)
	}
	if up.Revealed != nil {
		b.add("revealed=$%d", *up.Revealed)
	}
	if len(b.parts) == 0 {
		return r.Get(ctx, id)
	}
	q := fmt.Sprintf(`UPDATE secrets SET %s WHERE id=$%d RETURNING %s`, b.set(), len(b.args)+1, secretColumns)
	var sec *models.Secret
	err := r.s.tx(ctx, func(tx pgx.Tx) error {
		var scanErr error
		sec, scanErr = scanSecret(tx.QueryRow(ctx, q, append(b.args, id)...))
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	r.s.notifier.NotifyGame(sec.GameID, models.GameMessage("secret", "update", sec.GameID, *sec))
	return sec, nil
}

func (r secretRepo) Search(ctx context.Context, f store.SecretFilter) ([]*models.Secret, error) {
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
	if f.Revealed != nil {
		b.add("revealed=$%d", *f.Revealed)
	}
	if len(f.TypeIn) > 0 {
		types := make([]string, len(f.TypeIn))
		for i, t := range f.TypeIn {
			types[i] = string(t)
		}
		b.add("secret_type = ANY($%d)", types)
	}
	q := `SELECT ` + secretColumns + ` FROM secrets` + b.where() + ` ORDER BY id`
	rows, err := r.s.pool.Query(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Secret
	for rows.Next() {
		sec, err := scanSecret(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}
