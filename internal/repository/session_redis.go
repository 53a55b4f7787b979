package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/redis"
)

// ErrSessionExpired is returned by Put when the record would already be dead.
var ErrSessionExpired = errors.New("session expires in the past")

type redisSessionRecord struct {
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type redisSessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

// NewRedisSessionStore stores each session as a JSON value whose TTL matches
// the remaining lifetime, and tracks the hashes issued per account in a set.
func NewRedisSessionStore(client goredis.UniversalClient) SessionStore {
	return &redisSessionStore{client: client, now: time.Now}
}

func (s *redisSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	raw, err := s.client.Get(ctx, redis.SessionKey(tokenHash)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec redisSessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &model.Session{
		TokenHash: tokenHash,
		AccountID: rec.AccountID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *redisSessionStore) Put(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	ttl := params.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil, ErrSessionExpired
	}

	raw, err := json.Marshal(redisSessionRecord{
		AccountID: params.AccountID,
		CreatedAt: params.CreatedAt,
		ExpiresAt: params.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	setKey := redis.AccountSessionsKey(params.AccountID)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, redis.SessionKey(params.TokenHash), raw, ttl)
		pipe.SAdd(ctx, setKey, params.TokenHash)
		pipe.Expire(ctx, setKey, ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.Session{
		TokenHash: params.TokenHash,
		AccountID: params.AccountID,
		CreatedAt: params.CreatedAt,
		ExpiresAt: params.ExpiresAt,
	}, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	session, err := s.Get(ctx, tokenHash)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, redis.SessionKey(tokenHash))
		pipe.SRem(ctx, redis.AccountSessionsKey(session.AccountID), tokenHash)
		return nil
	})
	return err
}

// revokeAccountScript deletes every session indexed for an account and the
// index itself in one step, so a concurrent Put is either revoked or keeps
// its index entry.
var revokeAccountScript = goredis.NewScript(`
local members = redis.call('SMEMBERS', KEYS[1])
local deleted = 0
for _, hash in ipairs(members) do
    deleted = deleted + redis.call('DEL', ARGV[1] .. hash)
end
redis.call('DEL', KEYS[1])
return deleted
`)

func (s *redisSessionStore) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	return revokeAccountScript.Run(ctx, s.client,
		[]string{redis.AccountSessionsKey(accountID)},
		redis.SessionKey(""),
	).Int64()
}

// DeleteExpired is a no-op: Redis evicts records when their TTL runs out.
func (s *redisSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
