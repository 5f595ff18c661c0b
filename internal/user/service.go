package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-social/internal/apperr"
	"go-social/internal/validation"
)

// TokenSigner issues identity tokens for authenticated users.
type TokenSigner interface {
	Sign(userID int) (string, error)
}

type Service struct {
	repo       *Repository
	tokens     TokenSigner
	bcryptCost int
}

func NewService(repo *Repository, tokens TokenSigner, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.New(apperr.KindUserAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:    req.Email,
		FullName: req.FullName,
		Password: string(hashedPwd),
	}

	// The unique index still rejects a duplicate that raced the check above.
	return s.repo.CreateUser(ctx, u)
}

// Login returns a signed token for the user. Unknown email and wrong
// password fail identically.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", apperr.New(apperr.KindBadCredentials)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return "", apperr.New(apperr.KindBadCredentials)
	}

	return s.tokens.Sign(u.ID)
}

// Token issues a token for an already identified user, e.g. right after
// registration.
func (s *Service) Token(userID int) (string, error) {
	return s.tokens.Sign(userID)
}

func (s *Service) GetByID(ctx context.Context, id int) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindUserNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Search(ctx context.Context, query string, excludeID int) ([]User, error) {
	return s.repo.SearchUsers(ctx, query, excludeID)
}
