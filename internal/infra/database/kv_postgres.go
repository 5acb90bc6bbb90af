package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const kvTable = "kv_store"

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresStore struct {
	DB *sql.DB
	sb sq.StatementBuilderType
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		DB: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("store: criar tabela %s: %w", kvTable, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (json.RawMessage, error) {
	query, args, err := s.loadQuery(key)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPQ("load "+key, err)
	}
	return raw, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, value json.RawMessage) error {
	if err := validKey(key); err != nil {
		return err
	}
	query, args, err := s.saveQuery(key, value)
	if err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return wrapPQ("save "+key, err)
	}
	return nil
}

func (s *PostgresStore) loadQuery(key string) (string, []interface{}, error) {
	return s.sb.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func (s *PostgresStore) saveQuery(key string, value json.RawMessage) (string, []interface{}, error) {
	return s.sb.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(value), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

func wrapPQ(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		log.Printf("❌ Postgres %s: %s (code %s)", op, pqErr.Message, pqErr.Code)
		return fmt.Errorf("store: %s: %s: %w", op, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}
