// Package db implements the Supplier Store and Dog Store on top of GORM.
// Postgres is used in production; tests run against in-memory SQLite.
package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/k9registry/internal/registry/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewRepository connects to Postgres and migrates the schema.
func NewRepository(cfg *Config) (*Repository, error) {
	return NewWithDialector(postgres.Open(cfg.DSN()))
}

// NewWithDialector opens a database through any GORM dialector and migrates
// the schema.
func NewWithDialector(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.Supplier{}, &dbmodels.Dog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

type txKey struct{}

// WithTransaction runs fn in a single database transaction. Store calls made
// with the context handed to fn join that transaction. A nested call joins
// the outer transaction instead of opening a new one.
func (r *Repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or the pool.
func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// containsClause builds a case-sensitive substring predicate on column.
// LIKE is case-insensitive on SQLite and treats % and _ as wildcards, so a
// position function is used instead.
func (r *Repository) containsClause(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return "instr(" + column + ", ?) > 0"
	}
	return "strpos(" + column + ", ?) > 0"
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.conn(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
