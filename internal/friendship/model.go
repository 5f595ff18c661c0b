package friendship

import (
	"time"

	"go-social/internal/user"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// Friendship is a directed edge from the requesting user to the recipient.
// Only the recipient moves it out of StatusRequested, and both terminal
// statuses are final.
type Friendship struct {
	ID         int       `db:"id" json:"id"`
	FromUserID int       `db:"from_user_id" json:"fromUserId"`
	ToUserID   int       `db:"to_user_id" json:"toUserId"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	FromUser *user.User `db:"from_user" json:"fromUser,omitempty"`
	ToUser   *user.User `db:"to_user" json:"toUser,omitempty"`
}

func (f *Friendship) involves(userID int) bool {
	return f.FromUserID == userID || f.ToUserID == userID
}

type CreateRequest struct {
	ToUserID int `json:"toUserId"`
}
