package user

import (
	"context"
	"testing"

	"go-social/internal/testutil"
)

func TestSearchUsers(t *testing.T) {
	database := testutil.NewDatabase(t)
	repo := NewRepository(database.Conn)
	ctx := context.Background()

	alice := testutil.InsertUser(t, database, "alice@example.com", "Alice Liddell")
	testutil.InsertUser(t, database, "bob@example.com", "Bob Builder")
	alex := testutil.InsertUser(t, database, "alex@example.com", "Alex Smith")
	testutil.InsertUser(t, database, "carol@example.com", "Carol 100%")

	tests := []struct {
		name      string
		query     string
		excludeID int
		expected  int
	}{
		{name: "Substring of email", query: "al", excludeID: 0, expected: 2},
		{name: "Case insensitive name", query: "BUILDER", excludeID: 0, expected: 1},
		{name: "Excludes caller", query: "al", excludeID: alice, expected: 1},
		{name: "Matches either column", query: "smith", excludeID: 0, expected: 1},
		{name: "Literal percent", query: "100%", excludeID: 0, expected: 1},
		{name: "Literal underscore", query: "_", excludeID: 0, expected: 0},
		{name: "Empty query matches all but caller", query: "", excludeID: alex, expected: 3},
		{name: "No match", query: "zed", excludeID: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.SearchUsers(ctx, tt.query, tt.excludeID)
			if err != nil {
				t.Fatalf("SearchUsers failed: %v", err)
			}
			if len(users) != tt.expected {
				t.Errorf("Expected %d users, got %d", tt.expected, len(users))
			}
			for _, u := range users {
				if u.ID == tt.excludeID {
					t.Errorf("Expected user %d to be excluded", tt.excludeID)
				}
			}
		})
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	database := testutil.NewDatabase(t)
	repo := NewRepository(database.Conn)

	if _, err := repo.GetUserByEmail(context.Background(), "nobody@example.com"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearchUsersFoldsNonASCII(t *testing.T) {
	database := testutil.NewDatabase(t)
	repo := NewRepository(database.Conn)

	aerzte := testutil.InsertUser(t, database, "team@example.com", "Ärzte Team")
	testutil.InsertUser(t, database, "other@example.com", "Other")

	for _, query := range []string{"ärzte", "ÄRZTE", "Ärzte"} {
		users, err := repo.SearchUsers(context.Background(), query, 0)
		if err != nil {
			t.Fatalf("SearchUsers(%q) failed: %v", query, err)
		}
		if len(users) != 1 || users[0].ID != aerzte {
			t.Errorf("SearchUsers(%q): expected the Ärzte user, got %+v", query, users)
		}
	}
}
