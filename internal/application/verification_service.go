package application

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adityarw/registration-service/internal/domain/entity"
	repo "github.com/adityarw/registration-service/internal/domain/repository"
	"github.com/adityarw/registration-service/pkg/helpers"
)

var (
	ErrMissingToken    = errors.New("missing token")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyVerified = errors.New("user is already verified")
)

func keyVerified(uid string) string { return "user:verified:" + uid }

// VerificationService consumes verification tokens: decode, load the user,
// reject replays of an already-used link, then flip the verified flag.
type VerificationService struct {
	Repo   repo.UserRepository
	Tokens *helpers.TokenManager
	Redis  *redis.Client // optional read-side cache of the verified flag
	Logger *logrus.Logger
}

func NewVerificationService(r repo.UserRepository, tokens *helpers.TokenManager, rdb *redis.Client, logger *logrus.Logger) *VerificationService {
	return &VerificationService{Repo: r, Tokens: tokens, Redis: rdb, Logger: logger}
}

// Verify validates the token and marks the bound user as verified. The flag
// is monotonic: a second call with the same (still valid) token fails with
// ErrAlreadyVerified and leaves the record unchanged.
func (s *VerificationService) Verify(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	// Cache fast path; records are never deleted within this service, so a
	// cache hit implies the user row exists.
	if s.Redis != nil {
		if v, _ := s.Redis.Get(ctx, keyVerified(claims.UserID)).Result(); v == "1" {
			return nil, ErrAlreadyVerified
		}
	}

	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if u.IsVerified {
		s.cacheVerified(ctx, u.ID)
		return nil, ErrAlreadyVerified
	}

	if err := s.Repo.SetVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.IsVerified = true
	s.cacheVerified(ctx, u.ID)

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("email verified")
	}
	return u, nil
}

func (s *VerificationService) cacheVerified(ctx context.Context, uid string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Set(ctx, keyVerified(uid), "1", 0).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", uid).Warn("verified cache set failed")
	}
}
