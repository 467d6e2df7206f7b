package xpgx

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool runs squirrel builders against Postgres.
type Pool interface {
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	QueryRowx(ctx context.Context, query sq.Sqlizer) (pgx.Row, error)
	Close()
}

type pool struct {
	db *pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err = db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return &pool{db: db}, nil
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.db.Exec(ctx, sql, args...)
}

func (p *pool) QueryRowx(ctx context.Context, query sq.Sqlizer) (pgx.Row, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.db.QueryRow(ctx, sql, args...), nil
}

func (p *pool) Close() {
	p.db.Close()
}
