package accounts

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a
// wrong password; callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service wraps repository operations with credential handling.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Authenticate verifies the email/password pair against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// Register creates an account with a freshly hashed password.
func (s *Service) Register(ctx context.Context, a *Account, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a.PasswordHash = string(hash)
	return s.repo.Create(ctx, a)
}

// SetPassword rehashes and stores a new password for the account.
func (s *Service) SetPassword(ctx context.Context, email, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, email, string(hash))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, a *Account) (*Account, error) {
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
