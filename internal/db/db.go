package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"

	// sqliteDriverName is the sqlite3 driver with LOWER replaced by a
	// Unicode-aware version. The built-in one only folds ASCII.
	sqliteDriverName = "sqlite3_unicode"
)

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

type Database struct {
	Conn   *sqlx.DB
	Driver string
}

func NewDatabase(driver, dsn string) (*Database, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	driverName := driver
	if driver == DriverSQLite {
		driverName = sqliteDriverName
	}

	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if driver == DriverSQLite {
		// A single long-lived connection: avoids SQLITE_BUSY under concurrent
		// requests and keeps ":memory:" databases alive.
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	}

	return &Database{Conn: conn, Driver: driver}, nil
}

func (d *Database) Close() error {
	return d.Conn.Close()
}

func (d *Database) AutoMigrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE NOT NULL,
            password VARCHAR(255) NOT NULL,
            full_name VARCHAR(255) NOT NULL,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS friendships (
            id SERIAL PRIMARY KEY,
            from_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            to_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status VARCHAR(10) NOT NULL CHECK (status IN ('requested', 'accepted', 'rejected')) DEFAULT 'requested',
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL,
            CHECK (from_user_id <> to_user_id),
            UNIQUE (from_user_id, to_user_id)
        )`,

		// One edge per unordered pair, so a request racing its reverse is rejected by the store.
		`CREATE UNIQUE INDEX IF NOT EXISTS friendships_pair_idx
            ON friendships (LEAST(from_user_id, to_user_id), GREATEST(from_user_id, to_user_id))`,

		`CREATE TABLE IF NOT EXISTS messages (
            id SERIAL PRIMARY KEY,
            from_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            to_user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            text TEXT NOT NULL,
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS messages_unread_idx ON messages (to_user_id, is_read, id)`,
	}

	for _, query := range queries {
		_, err := d.Conn.Exec(d.dialect(query))
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// dialect rewrites the Postgres DDL above for SQLite.
func (d *Database) dialect(query string) string {
	if d.Driver != DriverSQLite {
		return query
	}
	r := strings.NewReplacer(
		"SERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"TIMESTAMP", "DATETIME",
		"LEAST(", "MIN(",
		"GREATEST(", "MAX(",
	)
	return r.Replace(query)
}

// Now returns the current UTC time at the microsecond precision a Postgres
// TIMESTAMP column keeps, so values handed back after an insert match what
// a later read returns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
