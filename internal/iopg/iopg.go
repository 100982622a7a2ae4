// Package iopg implements store.Store on PostgreSQL.
// Bulk species writes and search go through pgxpool, users and notes go
// through GORM opened on the same pool.
// This is an impure I/O package that implements contracts
// defined in pkg/store.
package iopg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// uniqueViolation is the PostgreSQL error code of a unique constraint.
const uniqueViolation = "23505"

type pgStore struct {
	pool *pgxpool.Pool
	gdb  *gorm.DB
	now  func() time.Time
}

// New creates a connection pool to PostgreSQL and verifies it.
func New(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port, cfg.Name, cfg.User, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.ConnConfig.ConnectTimeout = cfg.Timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port, cfg.Name, cfg.User, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, ConnectionError(cfg.Host, cfg.Port, cfg.Name, cfg.User, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		pool.Close()
		return nil, GORMConnectionError(err)
	}

	slog.Info("Connected to PostgreSQL",
		"host", cfg.Host, "port", cfg.Port, "database", cfg.Name)

	return &pgStore{pool: pool, gdb: gdb, now: time.Now}, nil
}

// Init creates tables and indexes with GORM AutoMigrate.
func (p *pgStore) Init(ctx context.Context) error {
	err := p.gdb.WithContext(ctx).AutoMigrate(
		&speciesRow{}, &userRow{}, &noteRow{},
	)
	if err != nil {
		return SchemaError(err)
	}
	return nil
}

func (p *pgStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *pgStore) Close(context.Context) error {
	p.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
