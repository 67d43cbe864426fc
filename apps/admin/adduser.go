package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aslbekqoziboyev/lc-backend/core"
	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

// addUser updates or creates an admin user.User
func (cli *commandLine) addUser(name, uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	found := true
	usr, err := cli.usrRepo.GetUserByUsername(ctx, uname)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		found = false
		usr = user.User{
			ID:        uuid.NewString(),
			Username:  uname,
			Devices:   []user.Device{},
			CreatedAt: now,
		}
	}
	usr.Role = user.RoleSuperAdmin
	usr.Name = core.CleanString(name)
	usr.Email = email
	usr.IsLeft = false
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if found {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return err
}
