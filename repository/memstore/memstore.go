// Package memstore keeps users and refresh tokens in process memory. It backs
// end-to-end tests and local runs without PostgreSQL.
package memstore

import (
	"context"
	"go-finance-api/model"
	"go-finance-api/repository"
	"sync"
	"time"
)

// UserStore is an in-memory repository.IUserRepository.
type UserStore struct {
	mu      sync.RWMutex
	nextID  int
	byID    map[int]*model.User
	byEmail map[string]int
	now     func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID:  1,
		byID:    make(map[int]*model.User),
		byEmail: make(map[string]int),
		now:     time.Now,
	}
}

func (s *UserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	now := s.now()
	user.ID = s.nextID
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	s.nextID++

	stored := *user
	s.byID[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

func (s *UserStore) GetUserByID(_ context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *stored
	return &u, nil
}

func (s *UserStore) UpdateLastLogin(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		now := s.now()
		u.LastLogin = &now
	}
	return nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = s.now()
	return nil
}

func (s *UserStore) UpdateEmail(_ context.Context, id int, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if owner, taken := s.byEmail[email]; taken && owner != id {
		return nil, repository.ErrDuplicate
	}
	delete(s.byEmail, u.Email)
	u.Email = email
	u.UpdatedAt = s.now()
	s.byEmail[email] = id
	updated := *u
	return &updated, nil
}

func (s *UserStore) Deactivate(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = false
	u.UpdatedAt = s.now()
	return nil
}

// TokenStore is an in-memory repository.ITokenRepository. Expiry is
// evaluated against its clock at lookup time, like the SQL ledger.
type TokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	nextID int
	tokens map[string]model.RefreshToken
	now    func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		ttl:    ttl,
		nextID: 1,
		tokens: make(map[string]model.RefreshToken),
		now:    time.Now,
	}
}

// SetClock replaces the store's time source.
func (s *TokenStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *TokenStore) Store(_ context.Context, userID int, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; ok {
		return repository.ErrDuplicate
	}
	now := s.now()
	s.tokens[token] = model.RefreshToken{
		ID:        s.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	s.nextID++
	return nil
}

func (s *TokenStore) Lookup(_ context.Context, token string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[token]
	if !ok || !rt.ExpiresAt.After(s.now()) {
		return nil, repository.ErrNotFound
	}
	return &rt, nil
}

func (s *TokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *TokenStore) RevokeAllForUser(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rt := range s.tokens {
		if rt.UserID == userID {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *TokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for key, rt := range s.tokens {
		if !rt.ExpiresAt.After(now) {
			delete(s.tokens, key)
			n++
		}
	}
	return n, nil
}

// Len reports how many rows the ledger holds, expired ones included.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

var (
	_ repository.IUserRepository  = (*UserStore)(nil)
	_ repository.ITokenRepository = (*TokenStore)(nil)
)
