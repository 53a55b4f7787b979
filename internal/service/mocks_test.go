package service

import (
	"context"
	"sync"
	"time"

	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/util"
)

const testSecret = "test-session-secret"

type mockAccountRepo struct {
	FindByIDFunc       func(ctx context.Context, id string) (*model.Account, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*model.Account, error)
	FindAllFunc        func(ctx context.Context, limit, offset int) ([]model.Account, error)
	CountFunc          func(ctx context.Context) (int, error)
	CreateFunc         func(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	UpdateFunc         func(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	TouchLastLoginFunc func(ctx context.Context, id string, at time.Time) error
	HasAdminFunc       func(ctx context.Context) (bool, error)
}

var _ repository.AccountRepository = (*mockAccountRepo)(nil)

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAccountRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Account, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockAccountRepo) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockAccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *mockAccountRepo) HasAdmin(ctx context.Context) (bool, error) {
	if m.HasAdminFunc != nil {
		return m.HasAdminFunc(ctx)
	}
	return false, nil
}

// memoryStore is an in-process SessionStore that counts lookups and can be
// told to fail.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	gets     int
	err      error
	putErr   error
}

var _ repository.SessionStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]model.Session)}
}

func (s *memoryStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *memoryStore) Put(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.putErr != nil {
		return nil, s.putErr
	}
	session := model.Session(params)
	s.sessions[params.TokenHash] = session
	return &session, nil
}

func (s *memoryStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (s *memoryStore) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for hash, session := range s.sessions {
		if session.AccountID == accountID {
			delete(s.sessions, hash)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// accountsByID serves FindByID/FindByEmail out of a fixed set of accounts.
func accountsByID(accounts ...*model.Account) *mockAccountRepo {
	return &mockAccountRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Account, error) {
			for _, a := range accounts {
				if a.ID == id {
					copied := *a
					return &copied, nil
				}
			}
			return nil, nil
		},
		FindByEmailFunc: func(ctx context.Context, email string) (*model.Account, error) {
			for _, a := range accounts {
				if a.Email == email {
					copied := *a
					return &copied, nil
				}
			}
			return nil, nil
		},
	}
}

func testHasher() *util.BcryptHasher {
	return util.NewBcryptHasher(4)
}

// countingHasher records how many Verify calls were made.
type countingHasher struct {
	*util.BcryptHasher
	verifies int
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies++
	return h.BcryptHasher.Verify(password, hash)
}
