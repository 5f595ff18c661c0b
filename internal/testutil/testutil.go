// Package testutil holds fixtures shared by package tests. It only depends on
// the db package so any feature package can use it from its own tests.
package testutil

import (
	"testing"

	"go-social/internal/db"
)

// NewDatabase opens a migrated in-memory SQLite database that is closed when
// the test ends.
func NewDatabase(t *testing.T) *db.Database {
	t.Helper()

	database, err := db.NewDatabase(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { database.Close() })
	return database
}

// InsertUser stores a user row directly and returns its id. The password
// column holds a placeholder, so the user cannot log in.
func InsertUser(t *testing.T, d *db.Database, email, fullName string) int {
	t.Helper()

	now := db.Now()
	var id int
	query := d.Conn.Rebind(`INSERT INTO users (email, password, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := d.Conn.QueryRow(query, email, "not-a-hash", fullName, now, now).Scan(&id); err != nil {
		t.Fatalf("Failed to insert user %s: %v", email, err)
	}
	return id
}
