package user

import (
	"context"
	"errors"
	"testing"
)

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type fakeDirectory struct {
	users     []User
	passwords map[string]string

	queryErr  error
	verifyErr error
}

func (d *fakeDirectory) QueryAllUsers(context.Context) ([]User, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return d.users, nil
}

func (d *fakeDirectory) VerifyPassword(_ context.Context, email, pwd string) error {
	if d.verifyErr != nil {
		return d.verifyErr
	}
	if expected, ok := d.passwords[email]; !ok || expected != pwd {
		return ErrInvalidCredentials
	}
	return nil
}

func TestAuthenticator_Authenticate(t *testing.T) {
	dir := &fakeDirectory{
		users: []User{
			{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
			{ID: 2, Email: "teacher@example.com", Role: RoleTeacher},
			{ID: 3, Email: "student@example.com", Role: RoleStudent},
			{ID: 4, Email: "intern@example.com", Role: "Intern"},
		},
		passwords: map[string]string{
			"admin@example.com":   "adminpass",
			"teacher@example.com": "teacherpass",
			"student@example.com": "studentpass",
			"intern@example.com":  "internpass",
		},
	}
	auth := NewAuthenticator(dir, testLogger{})

	tests := []struct {
		name     string
		email    string
		pwd      string
		queryErr error
		wantRole Role
		wantErr  error
	}{
		{name: "admin ok", email: "admin@example.com", pwd: "adminpass", wantRole: RoleAdmin},
		{name: "teacher ok", email: "teacher@example.com", pwd: "teacherpass", wantRole: RoleTeacher},
		{name: "student ok", email: "student@example.com", pwd: "studentpass", wantRole: RoleStudent},
		{name: "unknown email", email: "nobody@example.com", pwd: "adminpass", wantErr: ErrInvalidCredentials},
		{name: "wrong password", email: "admin@example.com", pwd: "wrong", wantErr: ErrInvalidCredentials},
		{name: "email is case-sensitive", email: "Admin@example.com", pwd: "adminpass", wantErr: ErrInvalidCredentials},
		{name: "unmapped role", email: "intern@example.com", pwd: "internpass", wantErr: ErrUnknownRole},
		{name: "directory down", email: "admin@example.com", pwd: "adminpass", queryErr: errors.New("connection refused"), wantErr: ErrDirectoryUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir.queryErr = tt.queryErr
			defer func() { dir.queryErr = nil }()

			usr, err := auth.Authenticate(context.Background(), tt.email, tt.pwd)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() unexpected error = %v", err)
			}
			if usr.Role != tt.wantRole {
				t.Errorf("Authenticate() role = %v, want %v", usr.Role, tt.wantRole)
			}
		})
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthenticator_Authenticate_identicalFailures(t *testing.T) {
	dir := &fakeDirectory{
		users:     []User{{ID: 1, Email: "admin@example.com", Role: RoleAdmin}},
		passwords: map[string]string{"admin@example.com": "adminpass"},
	}
	auth := NewAuthenticator(dir, testLogger{})

	_, unknownErr := auth.Authenticate(context.Background(), "nobody@example.com", "adminpass")
	_, wrongPwdErr := auth.Authenticate(context.Background(), "admin@example.com", "wrong")

	if unknownErr == nil || wrongPwdErr == nil {
		t.Fatal("expected both attempts to fail")
	}
	if unknownErr.Error() != wrongPwdErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownErr.Error(), wrongPwdErr.Error())
	}
}

// A password-verification transport failure must not read as bad credentials.
func TestAuthenticator_Authenticate_verifyTransportError(t *testing.T) {
	dir := &fakeDirectory{
		users:     []User{{ID: 1, Email: "admin@example.com", Role: RoleAdmin}},
		passwords: map[string]string{"admin@example.com": "adminpass"},
		verifyErr: errors.New("connection reset"),
	}
	auth := NewAuthenticator(dir, testLogger{})

	if _, err := auth.Authenticate(context.Background(), "admin@example.com", "adminpass"); err != ErrDirectoryUnavailable {
		t.Errorf("Authenticate() error = %v, want %v", err, ErrDirectoryUnavailable)
	}
}
