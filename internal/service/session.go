package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nutriva/brand-site-server/internal/config"
	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/util"
)

// SessionService issues, validates and revokes login sessions. Only the
// HMAC of a token ever reaches the store.
type SessionService struct {
	store         repository.SessionStore
	accountRepo   repository.AccountRepository
	sessionSecret string
	lifetime      time.Duration
	now           func() time.Time
}

func NewSessionService(
	store repository.SessionStore,
	accountRepo repository.AccountRepository,
	sessionSecret string,
) *SessionService {
	return &SessionService{
		store:         store,
		accountRepo:   accountRepo,
		sessionSecret: sessionSecret,
		lifetime:      config.SessionLifetime,
		now:           time.Now,
	}
}

func (s *SessionService) hash(token string) string {
	return util.HashToken(s.sessionSecret, token)
}

// CreateSession issues a new session for accountID and returns the raw
// token. The account is not looked up here.
func (s *SessionService) CreateSession(ctx context.Context, accountID string) (string, *model.Session, error) {
	token, err := util.NewToken()
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to generate session token", err)
	}

	now := s.now()
	session, err := s.store.Put(ctx, model.CreateSessionParams{
		TokenHash: s.hash(token),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	})
	if errors.Is(err, repository.ErrUnknownAccount) {
		// Nothing was stored, so the token behaves like a session that
		// never resolves.
		log.Debug().Str("accountId", accountID).Msg("session issued for unknown account")
		return token, &model.Session{
			TokenHash: s.hash(token),
			AccountID: accountID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.lifetime),
		}, nil
	}
	if err != nil {
		return "", nil, apperrors.Storage(err)
	}

	return token, session, nil
}

// Validate resolves token to its account. A nil account with a nil error
// means the caller is unauthenticated; errors are reserved for storage
// failures.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.Account, error) {
	if !util.IsValidToken(token) {
		return nil, nil
	}

	session, err := s.store.Get(ctx, s.hash(token))
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if session == nil || session.IsExpiredAt(s.now()) {
		return nil, nil
	}

	account, err := s.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if account == nil || !account.IsActive {
		return nil, nil
	}

	return account, nil
}

func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if !util.IsValidToken(token) {
		return nil
	}
	if err := s.store.Delete(ctx, s.hash(token)); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// RevokeAll deletes every session issued to accountID.
func (s *SessionService) RevokeAll(ctx context.Context, accountID string) (int64, error) {
	n, err := s.store.DeleteByAccountID(ctx, accountID)
	if err != nil {
		return 0, apperrors.Storage(err)
	}
	if n > 0 {
		log.Info().Str("accountId", accountID).Int64("count", n).Msg("sessions revoked")
	}
	return n, nil
}
