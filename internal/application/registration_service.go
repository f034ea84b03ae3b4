package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adityarw/registration-service/internal/domain/entity"
	repo "github.com/adityarw/registration-service/internal/domain/repository"
	"github.com/adityarw/registration-service/pkg/helpers"
	"github.com/adityarw/registration-service/pkg/mailer"
	tpl "github.com/adityarw/registration-service/pkg/mailer/templates"
)

var (
	ErrMissingFields     = errors.New("please enter all fields")
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrMailDelivery is returned when the verification email cannot be
	// enqueued. The user record is already committed at that point and is
	// intentionally left in place; the account can still be verified later
	// through a re-issued link.
	ErrMailDelivery = errors.New("failed to send verification email")
)

// MailPublisher is the send contract the registration flow depends on.
// helpers.RabbitPublisher satisfies it in production.
type MailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RegistrationService handles new account creation: validate input, check
// uniqueness, hash the password, persist, then enqueue a verification email.
type RegistrationService struct {
	Repo           repo.UserRepository
	Hasher         *helpers.Hasher
	Tokens         *helpers.TokenManager
	Mail           MailPublisher
	Logger         *logrus.Logger
	AppName        string
	VerifyEmailURL string
	MailEnabled    bool
}

func NewRegistrationService(r repo.UserRepository, hasher *helpers.Hasher, tokens *helpers.TokenManager, mail MailPublisher, logger *logrus.Logger, appName, verifyEmailURL string, mailEnabled bool) *RegistrationService {
	return &RegistrationService{
		Repo:           r,
		Hasher:         hasher,
		Tokens:         tokens,
		Mail:           mail,
		Logger:         logger,
		AppName:        appName,
		VerifyEmailURL: verifyEmailURL,
		MailEnabled:    mailEnabled,
	}
}

// Register creates a new unverified user. Uniqueness is pre-checked with a
// lookup for a friendly error, but the database unique constraint is what
// actually guarantees it under concurrent requests; a constraint violation
// surfaces as repo.ErrDuplicateEmail.
func (s *RegistrationService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Email: email, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.MailEnabled && s.Mail != nil {
		if err := s.sendVerificationEmail(ctx, u); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue verification email")
			}
			// No rollback: the account exists, only the email is missing.
			return nil, ErrMailDelivery
		}
	}

	return u, nil
}

func (s *RegistrationService) sendVerificationEmail(ctx context.Context, u *entity.User) error {
	token, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return err
	}
	link := s.VerifyEmailURL + "?token=" + token
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "verify_email",
		Data:     tpl.ToMap(tpl.NewVerifyEmailData(s.AppName, u.Email, link, exp)),
	}
	return s.Mail.PublishJSON(ctx, job)
}
