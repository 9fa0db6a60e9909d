package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-reorder-service/internal/domain/repository"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// TokenService issues and verifies access/refresh token pairs.
// Refresh rotates the pair but keeps no denylist: an older refresh token
// stays valid until its own expiry.
type TokenService struct {
	JWT    *helpers.JWTManager
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewTokenService(jwt *helpers.JWTManager, users repo.UserRepository, logger *logrus.Logger) *TokenService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &TokenService{JWT: jwt, Users: users, Logger: logger}
}

// Issue generates a fresh access/refresh pair for userID.
func (s *TokenService) Issue(userID string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate access token failed")
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate refresh token failed")
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// VerifyAccess returns the user id bound to an access token.
// Errors are helpers.ErrTokenExpired, ErrTokenInvalid or ErrTokenMalformed.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// VerifyRefresh returns the user id bound to a refresh token.
func (s *TokenService) VerifyRefresh(token string) (string, error) {
	claims, err := s.JWT.ParseRefreshToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Refresh verifies refreshToken, re-resolves its user and issues a new pair.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	uid, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, "", err
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, "", ErrUserNotFound
		}
		return TokenPair{}, "", fmt.Errorf("load user: %w", err)
	}
	pair, err := s.Issue(u.ID)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}
