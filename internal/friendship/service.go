package friendship

import (
	"context"
	"errors"

	"go-social/internal/apperr"
	"go-social/internal/user"
)

// UserFinder resolves user ids, failing with UserNotFound for unknown ids.
type UserFinder interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

type Service struct {
	repo  *Repository
	users UserFinder
}

func NewService(repo *Repository, users UserFinder) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Request(ctx context.Context, fromUserID, toUserID int) (*Friendship, error) {
	if fromUserID == toUserID {
		return nil, apperr.WithMessage(apperr.KindWrongFriendshipTarget, "You can not be a friend to yourself")
	}

	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsBetween(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.KindFriendshipAlreadyExists)
	}

	id, err := s.repo.Create(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Accept(ctx context.Context, friendshipID, actingUserID int) (*Friendship, error) {
	return s.transition(ctx, friendshipID, actingUserID, StatusAccepted)
}

func (s *Service) Reject(ctx context.Context, friendshipID, actingUserID int) (*Friendship, error) {
	return s.transition(ctx, friendshipID, actingUserID, StatusRejected)
}

// transition moves a requested edge addressed to actingUserID into a
// terminal status. Edges addressed to someone else are reported as not
// found so their existence does not leak.
func (s *Service) transition(ctx context.Context, friendshipID, actingUserID int, to Status) (*Friendship, error) {
	f, err := s.getAddressedTo(ctx, friendshipID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := terminalError(f.Status); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, friendshipID, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with a concurrent accept, reject or delete.
		f, err := s.getAddressedTo(ctx, friendshipID, actingUserID)
		if err != nil {
			return nil, err
		}
		if err := terminalError(f.Status); err != nil {
			return nil, err
		}
		return nil, apperr.New(apperr.KindFriendshipNotFound)
	}

	return s.repo.GetByID(ctx, friendshipID)
}

func (s *Service) getAddressedTo(ctx context.Context, friendshipID, userID int) (*Friendship, error) {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindFriendshipNotFound)
		}
		return nil, err
	}
	if f.ToUserID != userID {
		return nil, apperr.New(apperr.KindFriendshipNotFound)
	}
	return f, nil
}

func terminalError(status Status) error {
	switch status {
	case StatusAccepted:
		return apperr.New(apperr.KindFriendshipAlreadyAccepted)
	case StatusRejected:
		return apperr.New(apperr.KindFriendshipAlreadyRejected)
	}
	return nil
}

// Remove deletes the edge whatever its status, as long as actingUserID is
// one of its two participants.
func (s *Service) Remove(ctx context.Context, friendshipID, actingUserID int) error {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(apperr.KindFriendshipNotFound)
		}
		return err
	}
	if !f.involves(actingUserID) {
		return apperr.New(apperr.KindFriendshipNotFound)
	}
	return s.repo.Delete(ctx, friendshipID)
}

// ListRequests returns pending and rejected edges touching userID.
func (s *Service) ListRequests(ctx context.Context, userID int) ([]Friendship, error) {
	return s.repo.ListForUser(ctx, userID, StatusRequested, StatusRejected)
}

func (s *Service) ListFriends(ctx context.Context, userID int) ([]Friendship, error) {
	return s.repo.ListForUser(ctx, userID, StatusAccepted)
}
