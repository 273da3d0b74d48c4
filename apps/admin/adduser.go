package main

import (
	"context"
	"time"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email string, role user.Role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Role = role
	usr.IsVerified = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
