package store

import (
	"context"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store keeps wizard sessions. Missing sessions yield constants.ErrDBNotFound.
type Store interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
}

type store struct {
	pool Pool
}

// NewStore returns a Postgres backed store.
func NewStore(pool Pool) Store {
	return &store{pool}
}
