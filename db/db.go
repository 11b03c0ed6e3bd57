// Package db opens the relational store and creates the schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/courseapi/config"
	"github.com/padraicbc/courseapi/models"
)

// Setup opens the store selected by cfg.DBDriver and checks the connection.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.SQLitePath)
	default:
		db = OpenPostgres(cfg.PostgresDSN())
	}
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// OpenPostgres wraps a pgdriver connector in bun.
func OpenPostgres(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// OpenSQLite opens a SQLite database file, or an in-memory database for ":memory:".
// SQLite serialises writers, so the pool is pinned to a single connection.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates all tables and secondary indexes. It is safe to run repeatedly.
//
// No foreign keys are declared: deleting a trainer leaves its courses and payments
// pointing at the removed id.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Admin)(nil),
		(*models.Trainer)(nil),
		(*models.Course)(nil),
		(*models.Payment)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model  interface{}
		name   string
		column string
	}{
		{(*models.Course)(nil), "courses_title_idx", "title"},
		{(*models.Course)(nil), "courses_trainer_id_idx", "trainer_id"},
		{(*models.Payment)(nil), "payments_trainer_id_idx", "trainer_id"},
		{(*models.Payment)(nil), "payments_course_id_idx", "course_id"},
	}
	for _, ix := range indexes {
		_, err := db.NewCreateIndex().
			Model(ix.model).
			Index(ix.name).
			Column(ix.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}

	return nil
}
