package repository

import (
	"errors"
	"sync"

	"github.com/SundayYogurt/auth_service/internal/domain"
)

// MemoryRepository is an in-memory UserRepository keyed by email, used by
// the service tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   uint
	users map[string]domain.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]domain.User),
	}
}

func (r *MemoryRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, domain.ErrUserAlreadyExists
	}

	r.seq++
	user.ID = r.seq
	r.users[user.Email] = *user
	return user, nil
}

func (r *MemoryRepository) FindUserByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	// copy out so callers mutate nothing until SaveUser
	return &user, nil
}

func (r *MemoryRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.seq++
		user.ID = r.seq
	}
	// whole-record write, last writer wins
	r.users[user.Email] = *user
	return nil
}
