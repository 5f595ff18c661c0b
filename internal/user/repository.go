package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"go-social/internal/apperr"
	"go-social/internal/db"
)

var ErrNotFound = errors.New("user not found")

const userColumns = "id, email, password, full_name, created_at, updated_at"

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, user *User) (*User, error) {
	now := db.Now()
	query := r.db.Rebind(`INSERT INTO users (email, password, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)

	var id int
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Password, user.FullName, now, now).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.KindUserAlreadyExists)
		}
		return nil, err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (r *Repository) GetUserByID(ctx context.Context, id int) (*User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u, r.db.Rebind(query), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// SearchUsers matches query case-insensitively as a literal substring of
// the email or full name, leaving out excludeID. Case folding is Unicode
// aware on both drivers: SQLite connections get a LOWER that matches
// strings.ToLower (see db.NewDatabase).
func (r *Repository) SearchUsers(ctx context.Context, query string, excludeID int) ([]User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users
		WHERE id <> ?
		  AND (LOWER(email) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')
		ORDER BY id`)

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, q, excludeID, pattern, pattern); err != nil {
		return nil, err
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
