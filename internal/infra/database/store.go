// Package database guarda o estado durável do AutoLeads: um key-value de documentos JSON
// com drivers file, memory, postgres, redis e mongo.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Store é o contrato mínimo de persistência: sobrescrita atômica de uma chave.
// Load devolve nil, nil quando a chave não existe.
type Store interface {
	Load(ctx context.Context, key string) (json.RawMessage, error)
	Save(ctx context.Context, key string, value json.RawMessage) error
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver string

	FileDir string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI      string
	MongoDatabase string
}

// Open cria o Store do driver configurado.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFile:
		return NewFileStore(opts.FileDir)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		db, err := NewDBConnection(opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("store: postgres connect: %w", err)
		}
		s := NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s := NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("store: redis ping: %w", err)
		}
		return s, nil
	case DriverMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("store: driver desconhecido %q", opts.Driver)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("store: chave vazia")
	}
	return nil
}
