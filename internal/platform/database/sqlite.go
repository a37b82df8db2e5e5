package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"scouthub/internal/platform/config"
)

// Open connects to the sqlite database used for all persistent state.
// WAL keeps readers off the writer's lock; busy_timeout makes concurrent
// transactions queue instead of failing immediately.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
