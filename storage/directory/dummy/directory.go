package dummydir

import (
	"context"
	"sync"

	"github.com/studentsphere/portal/core/user"
)

// Directory is an in-memory user.Directory for dev and tests. Passwords are
// verified against an expected-password table keyed by email, preserving the
// shape of the original client-side check.
type Directory struct {
	mu        sync.RWMutex
	users     []user.User
	passwords map[string]string

	// Err, when set, fails every query; lets tests simulate an unreachable
	// directory.
	Err error
}

var _ user.Directory = (*Directory)(nil) // interface compliance check

func New() *Directory {
	return &Directory{passwords: make(map[string]string)}
}

// AddUser registers a user record along with its expected password.
func (d *Directory) AddUser(usr user.User, pwd string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, usr)
	d.passwords[usr.Email] = pwd
}

func (d *Directory) QueryAllUsers(_ context.Context) ([]user.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]user.User, len(d.users))
	copy(users, d.users)
	return users, nil
}

func (d *Directory) VerifyPassword(_ context.Context, email, pwd string) error {
	if d.Err != nil {
		return d.Err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	expected, ok := d.passwords[email]
	if !ok || expected != pwd {
		return user.ErrInvalidCredentials
	}
	return nil
}
