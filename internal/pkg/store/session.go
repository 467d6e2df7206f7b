package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
)

var sessionColumns = []string{"id", "template_id", "csv_data", "user_mapping", "created_at", "updated_at"}

const sessionsSchema = `
create table if not exists wizard_sessions (
	id           text primary key,
	template_id  text        not null,
	csv_data     jsonb       not null,
	user_mapping jsonb       not null default '{}',
	created_at   timestamptz not null default now(),
	updated_at   timestamptz not null default now()
)`

// EnsureSchema creates the sessions table when it does not exist.
func EnsureSchema(ctx context.Context, pool Pool) error {
	if _, err := pool.Execx(ctx, sq.Expr(sessionsSchema)); err != nil {
		return fmt.Errorf("create %s: %w", tableSessions, err)
	}
	return nil
}

func (s *store) CreateSession(ctx context.Context, session *domain.Session) error {
	csvJSON, mappingJSON, err := marshalSession(session)
	if err != nil {
		return err
	}

	query := builder().Insert(tableSessions).
		Columns(sessionColumns...).
		Values(session.ID, session.TemplateID, csvJSON, mappingJSON, session.CreatedAt, session.UpdatedAt)

	if _, err = s.pool.Execx(ctx, query); err != nil {
		logger.Errorf(ctx, "insert session: %s", err.Error())
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (s *store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	query := builder().Select(sessionColumns...).
		From(tableSessions).
		Where(sq.Eq{"id": id})

	row, err := s.pool.QueryRowx(ctx, query)
	if err != nil {
		return nil, err
	}

	var (
		selected    domain.Session
		csvJSON     []byte
		mappingJSON []byte
	)
	err = row.Scan(&selected.ID, &selected.TemplateID, &csvJSON, &mappingJSON, &selected.CreatedAt, &selected.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	selected.CsvData = new(domain.CsvData)
	if err = sonic.Unmarshal(csvJSON, selected.CsvData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal csv data: %w", err)
	}
	if err = sonic.Unmarshal(mappingJSON, &selected.UserMapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user mapping: %w", err)
	}

	return &selected, nil
}

func (s *store) UpdateSession(ctx context.Context, session *domain.Session) error {
	csvJSON, mappingJSON, err := marshalSession(session)
	if err != nil {
		return err
	}

	query := builder().Update(tableSessions).
		Set("template_id", session.TemplateID).
		Set("csv_data", csvJSON).
		Set("user_mapping", mappingJSON).
		Set("updated_at", session.UpdatedAt).
		Where(sq.Eq{"id": session.ID})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		logger.Errorf(ctx, "update session: %s", err.Error())
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func (s *store) DeleteSession(ctx context.Context, id string) error {
	query := builder().Delete(tableSessions).Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func marshalSession(session *domain.Session) ([]byte, []byte, error) {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now().UTC()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	csvJSON, err := sonic.Marshal(session.CsvData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal csv data: %w", err)
	}
	mappingJSON, err := sonic.Marshal(session.UserMapping)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal user mapping: %w", err)
	}

	return csvJSON, mappingJSON, nil
}
