// cmd/migrate/main.go
// Imports trainers, courses and payments from the legacy MySQL catalogue into the
// configured database. Safe to re-run: existing rows are skipped.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/CourseManagement?parseTime=true" \
//	JWT_SECRET="..." DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/config"
	bundb "github.com/padraicbc/courseapi/db"
	"github.com/padraicbc/courseapi/legacy"
	applog "github.com/padraicbc/courseapi/logger"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		logger.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/CourseManagement?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("open mysql", zap.Error(err))
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		logger.Fatal("ping mysql", zap.Error(err))
	}
	logger.Info("connected to MySQL")

	// --- target ---
	dst, err := bundb.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("open target database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer dst.Close()
	logger.Info("connected to target", zap.String("driver", cfg.DBDriver))

	if err := bundb.CreateTables(ctx, dst); err != nil {
		logger.Fatal("create tables", zap.Error(err))
	}

	steps, err := legacy.Import(ctx, myDB, dst, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Int("tables_done", len(steps)), zap.Error(err))
	}
	logger.Info("migration complete", zap.Int("tables", len(steps)))
}
