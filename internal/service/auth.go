package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/util"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyPassword is hashed once so unknown emails still pay for a bcrypt
// comparison.
const dummyPassword = "brand-site-timing-equalizer"

type LoginResult struct {
	Token     string
	Account   *model.Account
	ExpiresAt time.Time
}

type AuthService struct {
	accountRepo repository.AccountRepository
	sessions    *SessionService
	hasher      util.PasswordHasher
	dummyHash   string
	now         func() time.Time
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	sessions *SessionService,
	hasher util.PasswordHasher,
) (*AuthService, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		accountRepo: accountRepo,
		sessions:    sessions,
		hasher:      hasher,
		dummyHash:   dummyHash,
		now:         time.Now,
	}, nil
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.Wrap(apperrors.ErrCodeUnauthorized, "Invalid email or password", ErrInvalidCredentials)
}

// Login checks credentials and issues a session. Unknown email, wrong
// password and inactive account all yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = util.NormalizeEmail(email)
	if !util.IsValidEmail(email) {
		return nil, apperrors.ValidationError("A valid email is required")
	}
	if password == "" {
		return nil, apperrors.ValidationError("Password is required")
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	if account == nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, invalidCredentials()
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, invalidCredentials()
	}
	if !account.IsActive {
		return nil, invalidCredentials()
	}

	token, session, err := s.sessions.CreateSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.accountRepo.TouchLastLogin(ctx, account.ID, now); err != nil {
		log.Warn().Err(err).Str("accountId", account.ID).Msg("failed to record last login")
	} else {
		account.LastLoginAt = &now
	}

	return &LoginResult{
		Token:     token,
		Account:   account,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session behind token. Store failures are logged, not
// returned.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		log.Warn().Err(err).Msg("failed to delete session on logout")
	}
}
