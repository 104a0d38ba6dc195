package repositories

import (
	"context"
	"sync"
	"time"
	"user-registration/app/server/models"
)

var _ UserStore = (*InMemoryUserStore)(nil)

// InMemoryUserStore 用于测试与本地调试，不做任何持久化
type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[uint]models.User),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsAdmin = false
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) Get(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *InMemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
