package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/repository"
)

// memoryAccounts is an in-process AccountRepository.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
}

var _ repository.AccountRepository = (*memoryAccounts)(nil)

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: make(map[string]*model.Account)}
}

func (m *memoryAccounts) FindByID(ctx context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryAccounts) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryAccounts) FindAll(ctx context.Context, limit, offset int) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Account{}
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	if offset >= len(out) {
		return []model.Account{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryAccounts) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

func (m *memoryAccounts) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == params.Email {
			return nil, repository.ErrDuplicate
		}
	}
	now := time.Now()
	a := &model.Account{
		ID:           uuid.NewString(),
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.accounts[a.ID] = a
	copied := *a
	return &copied, nil
}

func (m *memoryAccounts) Update(ctx context.Context, id string, params model.UpdateAccountParams) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	if params.Name != nil {
		a.Name = params.Name
	}
	if params.Role != nil {
		a.Role = *params.Role
	}
	if params.IsActive != nil {
		a.IsActive = *params.IsActive
	}
	a.UpdatedAt = time.Now()
	copied := *a
	return &copied, nil
}

func (m *memoryAccounts) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		a.PasswordHash = passwordHash
	}
	return nil
}

func (m *memoryAccounts) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		a.LastLoginAt = &at
	}
	return nil
}

func (m *memoryAccounts) HasAdmin(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Role == model.RoleAdmin && a.IsActive {
			return true, nil
		}
	}
	return false, nil
}

// memorySessions is an in-process SessionStore.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

var _ repository.SessionStore = (*memorySessions)(nil)

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]model.Session)}
}

func (s *memorySessions) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[tokenHash]; ok {
		return &session, nil
	}
	return nil, nil
}

func (s *memorySessions) Put(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := model.Session(params)
	s.sessions[params.TokenHash] = session
	return &session, nil
}

func (s *memorySessions) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *memorySessions) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for hash, session := range s.sessions {
		if session.AccountID == accountID {
			delete(s.sessions, hash)
			n++
		}
	}
	return n, nil
}

func (s *memorySessions) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *memorySessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
