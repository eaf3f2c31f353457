package main

import (
	"context"

	"github.com/adrsy6394/SkillSpring/core/user"
)

// addUser provisions a provider account and its user record. Admin
// accounts are created as students and promoted, since the provider only
// accepts self-service roles.
func (cli *commandLine) addUser(email, name, pwd string, role user.Role) error {
	ctx := context.Background()

	nu := user.NewUser{
		FullName:        name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	}
	promoteTo := user.Role("")
	if role == user.RoleAdmin {
		nu.Role = user.RoleStudent
		promoteTo = user.RoleAdmin
	}
	if err := nu.Validate(); err != nil {
		return err
	}

	subject, err := cli.idSvc.SignUp(ctx, nu.Email, nu.Password, nu.FullName, nu.Role)
	if err != nil {
		return err
	}
	usr, err := cli.usrSvc.Register(ctx, subject, nu)
	if err != nil {
		return err
	}

	if promoteTo != "" {
		if _, err = cli.usrSvc.ChangeRole(ctx, usr.ID, promoteTo); err != nil {
			return err
		}
	}
	return nil
}
