package main

import (
	"context"
	"time"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, role user.Role) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: uname})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Username:  uname,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		usr.Role = role
		usr.SetActive(true)
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Role = role
	if email != "" {
		usr.Email = email
	}
	usr.UpdatedAt = time.Now().UTC()
	active := true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	return err
}
