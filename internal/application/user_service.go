package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	repo "github.com/oksasatya/go-reorder-service/internal/domain/repository"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

const minPasswordLength = 8

var emailRule = validator.New()

// UserService is the credential store: it owns user identity and the password hash.
type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger

	hash    func(string) (string, error)
	compare func(hash, plain string) (bool, error)
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &UserService{
		Repo:    r,
		Logger:  logger,
		hash:    helpers.HashPassword,
		compare: helpers.CompareHashAndPassword,
	}
}

// Create registers a new user. The password is hashed before the record is written.
func (s *UserService) Create(ctx context.Context, email, password string) (*entity.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	u := entity.NewUser(email, password)
	if err := u.HashPendingPassword(s.hash); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Verify compares candidate against the stored hash. A mismatch is not an error.
func (s *UserService) Verify(u *entity.User, candidate string) (bool, error) {
	ok, err := s.compare(u.PasswordHash, candidate)
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return ok, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	ok, err := s.Verify(u, password)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("password verification failed")
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Save persists u, re-hashing the password only when it was changed.
func (s *UserService) Save(ctx context.Context, u *entity.User) error {
	if err := u.HashPendingPassword(s.hash); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// UpdateProfileInput fields are optional; nil leaves the stored value untouched.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
		}
		u.SetPassword(*in.Password)
	}
	if err := s.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func validateCredentials(email, password string) error {
	if err := emailRule.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}
