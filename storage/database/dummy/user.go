package dummydb

import (
	"context"
	"sync"

	"github.com/studentsphere/portal/core/user"
)

// userRepository is an in-memory user.Repository for dev and tests.
type userRepository struct {
	mu      sync.RWMutex
	users   []user.User
	pkCount int
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository() user.Repository {
	return &userRepository{}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	excluded := make(map[int]struct{}, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = struct{}{}
	}
	for _, usr := range repo.users {
		if _, skip := excluded[usr.ID]; skip {
			continue
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, u := range repo.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.pkCount++
	usr.ID = repo.pkCount
	repo.users = append(repo.users, usr)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	users := make([]user.User, len(repo.users))
	copy(users, repo.users)
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, usr := range repo.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, usr := range repo.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, u := range repo.users {
		if u.ID == usr.ID {
			repo.users[i] = usr
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	existing, err := repo.GetUserByEmail(ctx, usr.Email)
	if err == user.ErrNotFound {
		return repo.CreateUser(ctx, usr)
	} else if err != nil {
		return user.User{}, err
	}
	usr.ID = existing.ID
	usr.CreatedAt = existing.CreatedAt
	return repo.UpdateUser(ctx, usr)
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doomed := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}
	kept := repo.users[:0]
	for _, usr := range repo.users {
		if _, del := doomed[usr.ID]; !del {
			kept = append(kept, usr)
		}
	}
	repo.users = kept
	return nil
}
