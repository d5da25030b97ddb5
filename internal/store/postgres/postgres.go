// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deathcards-server/internal/store"
)

type Store struct {
	pool     *pgxpool.Pool
	notifier store.Notifier
}

// Connect parses the connection string, opens a pool and pings it.
func Connect(ctx context.Context, connStr string, n store.Notifier) (*Store, error) {
	if n == nil {
		n = store.NopNotifier{}
	}
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &Store{pool: pool, notifier: n}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Games() store.GameRepo     { return gameRepo{s} }
func (s *Store) Players() store.PlayerRepo { return playerRepo{s} }
func (s *Store) Cards() store.CardRepo     { return cardRepo{s} }
func (s *Store) Secrets() store.SecretRepo { return secretRepo{s} }
func (s *Store) Sets() store.SetRepo       { return setRepo{s} }
func (s *Store) Events() store.EventRepo   { return eventRepo{s} }
func (s *Store) Chats() store.ChatRepo     { return chatRepo{s} }

func (s *Store) tx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, fn)
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// qb accumulates WHERE and SET fragments with positional args.
type qb struct {
	parts []string
	args  []any
}

// add appends a fragment; expr must contain one %d for the arg position.
func (b *qb) add(expr string, v any) {
	b.args = append(b.args, v)
	b.parts = append(b.parts, fmt.Sprintf(expr, len(b.args)))
}

func (b *qb) raw(expr string) {
	b.parts = append(b.parts, expr)
}

func (b *qb) where() string {
	if len(b.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.parts, " AND ")
}

func (b *qb) set() string {
	return strings.Join(b.parts, ", ")
}
