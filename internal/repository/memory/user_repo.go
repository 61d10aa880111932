package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/repository"
)

// userRepository implements repository.UserRepository in memory.
// users and emails always describe the same set of accounts; both are only
// mutated while mu is held for writing.
type userRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	emails map[string]int64
}

// NewUserRepository creates a new in-memory user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users:  make(map[int64]*domain.User),
		emails: make(map[string]int64),
	}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.emails[user.Email]; exists {
		return nil, domain.NewDomainError(domain.ErrEmailAlreadyExists, "cannot create user", user.Email)
	}

	stored := user.Clone()
	stored.ID = nextID(r.users)

	r.users[stored.ID] = stored
	r.emails[stored.Email] = stored.ID

	return stored.Clone(), nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrUserNotFound, "lookup failed", fmt.Sprintf("user %d", id))
	}
	return user.Clone(), nil
}

// Update applies a partial update to an existing user.
func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrUserNotFound, "cannot update", fmt.Sprintf("user %d", id))
	}

	oldEmail := user.Email
	newEmail, emailChanged := patch.EmailChange(oldEmail)
	if emailChanged {
		if owner, taken := r.emails[newEmail]; taken && owner != id {
			return nil, domain.NewDomainError(domain.ErrEmailAlreadyExists, "cannot update user", newEmail)
		}
	}

	patch.Apply(user)

	if emailChanged {
		delete(r.emails, oldEmail)
		r.emails[newEmail] = id
	}

	return user.Clone(), nil
}

// List returns all users.
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user.Clone())
	}
	return users, nil
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.emails[email]
	return exists, nil
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
