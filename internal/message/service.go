package message

import (
	"context"
	"errors"
	"log"

	"go-social/internal/apperr"
	"go-social/internal/user"
	"go-social/internal/validation"
)

// UserFinder resolves user ids, failing with UserNotFound for unknown ids.
type UserFinder interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

// Notifier wakes whoever is waiting for messages addressed to userID.
type Notifier interface {
	Notify(ctx context.Context, userID int, msg *Message) error
}

type Service struct {
	repo     *Repository
	users    UserFinder
	notifier Notifier
}

func NewService(repo *Repository, users UserFinder, notifier Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

func (s *Service) Send(ctx context.Context, fromUserID int, req *SendRequest) (*Message, error) {
	if fromUserID == req.ToUserID {
		return nil, apperr.WithMessage(apperr.KindWrongMessageTarget, "You can not send a message to yourself")
	}

	if _, err := s.users.GetByID(ctx, req.ToUserID); err != nil {
		if apperr.Is(err, apperr.KindUserNotFound) {
			return nil, apperr.WithMessage(apperr.KindWrongMessageTarget, "Wrong target user id specified")
		}
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	msg, err := s.repo.Create(ctx, fromUserID, req.ToUserID, req.Text)
	if err != nil {
		return nil, err
	}

	// The message is stored; a recipient that misses the push gets it on
	// the next poll.
	if err := s.notifier.Notify(ctx, msg.ToUserID, msg); err != nil {
		log.Printf("⚠️ notify user %d of message %d: %v", msg.ToUserID, msg.ID, err)
	}

	return msg, nil
}

func (s *Service) MarkReadRange(ctx context.Context, userID int, req *MarkReadRequest) error {
	if req.FromID == nil || req.ToID == nil {
		return apperr.WithMessage(apperr.KindMessageRange, `Fields "fromId" and "toId" should be specified`)
	}
	if *req.FromID > *req.ToID {
		return apperr.WithMessage(apperr.KindMessageRange, `Value of "fromId" should be less than value of "toId"`)
	}

	_, err := s.repo.MarkRead(ctx, userID, *req.FromID, *req.ToID)
	return err
}

func (s *Service) ListUnread(ctx context.Context, userID, limit int) ([]Message, error) {
	return s.repo.ListUnread(ctx, userID, limit)
}

// GetByID returns a message userID sent or received. Anyone else sees not
// found.
func (s *Service) GetByID(ctx context.Context, id, userID int) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindMessageNotFound)
		}
		return nil, err
	}
	if m.FromUserID != userID && m.ToUserID != userID {
		return nil, apperr.New(apperr.KindMessageNotFound)
	}
	return m, nil
}
