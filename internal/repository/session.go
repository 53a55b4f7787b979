package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nutriva/brand-site-server/internal/model"
)

// SessionStore persists sessions keyed by the hash of their token.
//
// Get returns (nil, nil) when no record exists. Records are returned as
// stored; callers decide whether they are expired.
type SessionStore interface {
	Get(ctx context.Context, tokenHash string) (*model.Session, error)
	Put(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByAccountID(ctx context.Context, accountID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresSessionStore struct {
	db *sqlx.DB
}

func NewPostgresSessionStore(db *sqlx.DB) SessionStore {
	return &postgresSessionStore{db: db}
}

func (s *postgresSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	var session model.Session
	err := s.db.GetContext(ctx, &session, `
		SELECT token_hash, account_id, created_at, expires_at
		FROM admin_sessions
		WHERE token_hash = $1
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (s *postgresSessionStore) Put(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := s.db.GetContext(ctx, &session, `
		INSERT INTO admin_sessions (token_hash, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING token_hash, account_id, created_at, expires_at
	`, params.TokenHash, params.AccountID, params.CreatedAt, params.ExpiresAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return &session, nil
}

func (s *postgresSessionStore) Delete(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (s *postgresSessionStore) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *postgresSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
