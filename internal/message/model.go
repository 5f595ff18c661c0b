package message

import "time"

// Message is a directed text from one user to another. IsRead only ever
// flips from false to true.
type Message struct {
	ID         int       `db:"id" json:"id"`
	FromUserID int       `db:"from_user_id" json:"fromUserId"`
	ToUserID   int       `db:"to_user_id" json:"toUserId"`
	Text       string    `db:"text" json:"text"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type SendRequest struct {
	ToUserID int    `json:"toUserId"`
	Text     string `json:"text" validate:"required"`
}

// MarkReadRequest bounds are pointers so a missing field can be told apart
// from zero.
type MarkReadRequest struct {
	FromID *int `json:"fromId"`
	ToID   *int `json:"toId"`
}
