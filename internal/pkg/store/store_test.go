package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

func testSession() *domain.Session {
	col := domain.NewColumn("year", 1)
	return &domain.Session{
		ID:         "5c3e1f40-8a51-4f8e-9d0c-1d8f3d3a9a10",
		TemplateID: "multiVarCol",
		CsvData: &domain.CsvData{
			RawCsvFile:     "data.csv",
			OrderedColumns: []domain.Column{domain.NewColumn("geo", 0), col},
		},
		UserMapping: domain.UserMapping{}.With(domain.MappedThingDate, domain.ColumnVal(col)),
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	session := testSession()

	_, err := s.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
	assert.ErrorIs(t, s.UpdateSession(ctx, session), constants.ErrDBNotFound)

	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.UserMapping.Equal(session.UserMapping))

	updated := *got
	updated.UserMapping = updated.UserMapping.With(domain.MappedThingUnit, domain.ConstantVal("Count"))
	require.NoError(t, s.UpdateSession(ctx, &updated))

	got, err = s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UserMapping.Len())

	require.NoError(t, s.DeleteSession(ctx, session.ID))
	assert.ErrorIs(t, s.DeleteSession(ctx, session.ID), constants.ErrDBNotFound)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *[]byte:
			*p = r.values[i].([]byte)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

type fakePool struct {
	sql      []string
	args     [][]any
	row      pgx.Row
	affected int64
}

func (p *fakePool) record(q sq.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return err
	}
	p.sql = append(p.sql, sql)
	p.args = append(p.args, args)
	return nil
}

func (p *fakePool) Execx(_ context.Context, q sq.Sqlizer) (pgconn.CommandTag, error) {
	if err := p.record(q); err != nil {
		return pgconn.CommandTag{}, err
	}
	if p.affected == 0 {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (p *fakePool) QueryRowx(_ context.Context, q sq.Sqlizer) (pgx.Row, error) {
	if err := p.record(q); err != nil {
		return nil, err
	}
	return p.row, nil
}

func (p *fakePool) Close() {}

func TestStore_CreateSession(t *testing.T) {
	pool := &fakePool{affected: 1}
	session := testSession()

	require.NoError(t, NewStore(pool).CreateSession(context.Background(), session))

	require.Len(t, pool.sql, 1)
	assert.Equal(t,
		"INSERT INTO wizard_sessions (id,template_id,csv_data,user_mapping,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6)",
		pool.sql[0])
	assert.Equal(t, session.ID, pool.args[0][0])
	assert.JSONEq(t, `{"DATE":{"type":"COLUMN","column":{"id":"year_1","header":"year","columnIdx":1}}}`, string(pool.args[0][3].([]byte)))
	assert.False(t, session.CreatedAt.IsZero())
}

func TestStore_GetSession(t *testing.T) {
	session := testSession()
	csvJSON, err := sonic.Marshal(session.CsvData)
	require.NoError(t, err)
	mappingJSON, err := sonic.Marshal(session.UserMapping)
	require.NoError(t, err)
	now := time.Now().UTC()

	pool := &fakePool{row: fakeRow{values: []any{session.ID, session.TemplateID, csvJSON, mappingJSON, now, now}}}
	got, err := NewStore(pool).GetSession(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, template_id, csv_data, user_mapping, created_at, updated_at FROM wizard_sessions WHERE id = $1", pool.sql[0])
	assert.Equal(t, session.CsvData.OrderedColumns, got.CsvData.OrderedColumns)
	assert.True(t, got.UserMapping.Equal(session.UserMapping))

	pool = &fakePool{row: fakeRow{err: pgx.ErrNoRows}}
	_, err = NewStore(pool).GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
}

func TestStore_UpdateMissing(t *testing.T) {
	pool := &fakePool{affected: 0}
	err := NewStore(pool).UpdateSession(context.Background(), testSession())
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
	assert.Contains(t, pool.sql[0], "UPDATE wizard_sessions SET template_id = $1")
}
