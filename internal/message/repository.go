package message

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"go-social/internal/db"
)

var ErrNotFound = errors.New("message not found")

const messageColumns = "id, from_user_id, to_user_id, text, is_read, created_at, updated_at"

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, fromUserID, toUserID int, text string) (*Message, error) {
	now := db.Now()
	query := r.db.Rebind(`INSERT INTO messages (from_user_id, to_user_id, text, is_read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	var id int
	if err := r.db.QueryRowContext(ctx, query, fromUserID, toUserID, text, false, now, now).Scan(&id); err != nil {
		return nil, err
	}

	return &Message{
		ID:         id,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Text:       text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Message, error) {
	m := &Message{}
	err := r.db.GetContext(ctx, m, r.db.Rebind("SELECT "+messageColumns+" FROM messages WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListUnread returns up to limit unread messages addressed to userID, oldest
// first.
func (r *Repository) ListUnread(ctx context.Context, userID, limit int) ([]Message, error) {
	query := r.db.Rebind("SELECT " + messageColumns + ` FROM messages
		WHERE to_user_id = ? AND is_read = ?
		ORDER BY id ASC
		LIMIT ?`)

	messages := []Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID, false, limit); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every message with an id in [fromID, toID] addressed to
// userID as read. Messages in the range addressed to others are untouched.
func (r *Repository) MarkRead(ctx context.Context, userID, fromID, toID int) (int64, error) {
	query := r.db.Rebind(`UPDATE messages SET is_read = ?, updated_at = ?
		WHERE id BETWEEN ? AND ? AND to_user_id = ? AND is_read = ?`)

	res, err := r.db.ExecContext(ctx, query, true, db.Now(), fromID, toID, userID, false)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
