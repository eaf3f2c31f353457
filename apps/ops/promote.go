package main

import (
	"context"
	"fmt"

	"github.com/adrsy6394/SkillSpring/core/user"
)

func (cli *commandLine) promote(email string, role user.Role) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	usr, err = cli.usrSvc.ChangeRole(ctx, usr.ID, role)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", usr.Email, usr.Role)
	return nil
}
