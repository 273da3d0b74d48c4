package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/studentsphere/portal/core"
)

var (
	// Authentication failure taxonomy. Unknown email and wrong password both
	// surface as ErrInvalidCredentials; callers must not be able to tell
	// which part was wrong.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnknownRole          = errors.New("unknown role")
)

type (
	// Directory is the external credential store the Authenticator queries.
	// Implementations may verify passwords server-side (HTTP client) or
	// against an expected-password table (in-memory, dev/tests).
	Directory interface {
		// QueryAllUsers returns the full user directory in a single request.
		QueryAllUsers(ctx context.Context) ([]User, error)
		// VerifyPassword checks pwd against the expected value for email,
		// failing with ErrInvalidCredentials on mismatch.
		VerifyPassword(ctx context.Context, email, pwd string) error
	}

	// Authenticator validates submitted credentials against the Directory.
	// It is deliberately decoupled from session issuance so the directory
	// lookup can be swapped for another verification backend.
	Authenticator struct {
		dir    Directory
		logger core.Logger
	}
)

func NewAuthenticator(dir Directory, logger core.Logger) *Authenticator {
	return &Authenticator{dir: dir, logger: logger}
}

// Authenticate returns the directory user whose email exactly matches and
// whose password verifies. It reads the directory once and never mutates it.
func (a *Authenticator) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	users, err := a.dir.QueryAllUsers(ctx)
	if err != nil {
		a.logger.Error("querying user directory", err)
		return User{}, ErrDirectoryUnavailable
	}

	var match *User
	for i := range users {
		if users[i].Email == email {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return User{}, ErrInvalidCredentials
	}

	if err = a.dir.VerifyPassword(ctx, email, pwd); err != nil {
		if errors.Cause(err) == ErrInvalidCredentials {
			return User{}, ErrInvalidCredentials
		}
		a.logger.Error("verifying password", err)
		return User{}, ErrDirectoryUnavailable
	}

	if !match.Role.Valid() {
		return User{}, ErrUnknownRole
	}
	return *match, nil
}
