package friendship

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"go-social/internal/apperr"
	"go-social/internal/db"
)

var ErrNotFound = errors.New("friendship not found")

// selectFriendships loads edges together with both participants. Password
// hashes are never selected.
const selectFriendships = `
	SELECT f.id, f.from_user_id, f.to_user_id, f.status, f.created_at, f.updated_at,
	       fu.id AS "from_user.id", fu.email AS "from_user.email", fu.full_name AS "from_user.full_name",
	       fu.created_at AS "from_user.created_at", fu.updated_at AS "from_user.updated_at",
	       tu.id AS "to_user.id", tu.email AS "to_user.email", tu.full_name AS "to_user.full_name",
	       tu.created_at AS "to_user.created_at", tu.updated_at AS "to_user.updated_at"
	FROM friendships f
	JOIN users fu ON fu.id = f.from_user_id
	JOIN users tu ON tu.id = f.to_user_id`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new requested edge. A unique index violation, whichever
// direction it comes from, is reported as FriendshipAlreadyExists.
func (r *Repository) Create(ctx context.Context, fromUserID, toUserID int) (int, error) {
	now := db.Now()
	query := r.db.Rebind(`INSERT INTO friendships (from_user_id, to_user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)

	var id int
	err := r.db.QueryRowContext(ctx, query, fromUserID, toUserID, StatusRequested, now, now).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, apperr.New(apperr.KindFriendshipAlreadyExists)
		}
		return 0, err
	}
	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Friendship, error) {
	f := &Friendship{}
	err := r.db.GetContext(ctx, f, r.db.Rebind(selectFriendships+" WHERE f.id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// ExistsBetween reports whether an edge links the two users in either
// direction, regardless of its status.
func (r *Repository) ExistsBetween(ctx context.Context, a, b int) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM friendships
		WHERE (from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))`)
	err := r.db.QueryRowContext(ctx, query, a, b, b, a).Scan(&exists)
	return exists, err
}

// UpdateStatus moves a requested edge to status. It reports false when the
// edge is missing or no longer requested.
func (r *Repository) UpdateStatus(ctx context.Context, id int, status Status) (bool, error) {
	query := r.db.Rebind(`UPDATE friendships SET status = ?, updated_at = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, query, status, db.Now(), id, StatusRequested)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM friendships WHERE id = ?`), id)
	return err
}

// ListForUser returns edges the user takes part in with any of statuses.
func (r *Repository) ListForUser(ctx context.Context, userID int, statuses ...Status) ([]Friendship, error) {
	query, args, err := sqlx.In(selectFriendships+`
		WHERE (f.from_user_id = ? OR f.to_user_id = ?) AND f.status IN (?)
		ORDER BY f.id`, userID, userID, statuses)
	if err != nil {
		return nil, err
	}

	friendships := []Friendship{}
	if err := r.db.SelectContext(ctx, &friendships, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return friendships, nil
}
