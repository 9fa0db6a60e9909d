package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
	"github.com/oksasatya/go-reorder-service/pkg/mailer"
	"github.com/oksasatya/go-reorder-service/pkg/mailer/templates"
)

// JobPublisher enqueues a JSON job; *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService composes the credential store and the token service into the
// sign-up / sign-in / refresh flows.
type AuthService struct {
	Users  *UserService
	Tokens *TokenService
	Mail   JobPublisher // optional
	Logger *logrus.Logger

	// AppName is rendered into outgoing emails.
	AppName string
}

func NewAuthService(users *UserService, tokens *TokenService, mail JobPublisher, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AuthService{Users: users, Tokens: tokens, Mail: mail, Logger: logger}
}

type AuthResult struct {
	User   *entity.User
	Tokens TokenPair
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.Create(ctx, email, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	s.enqueueWelcome(ctx, u)
	s.Logger.WithField("user_id", u.ID).Info("user signed up")
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	pair, _, err := s.Tokens.Refresh(ctx, refreshToken)
	return pair, err
}

// enqueueWelcome is best-effort: a broker outage never fails sign-up.
func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     templates.NewWelcomeData(s.AppName, u.Email),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email job")
	}
}
