package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// identityService is the provider surface the CLI needs.
type identityService interface {
	SignUp(ctx context.Context, email, password, fullName string, role user.Role) (string, error)
}

type commandLine struct {
	conf   *core.Config
	db     *sqlx.DB
	usrSvc *user.Service
	idSvc  identityService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate                                     - create the database if needed and apply migrations")
	fmt.Println("  adduser -email EMAIL -name NAME [-role ROLE] - provision an account; the password is prompted next")
	fmt.Println("  promote -email EMAIL -role ROLE              - change an existing user's role")
	fmt.Println("  listusers [-role ROLE] [-search TERM]        - list user records")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", string(user.RoleStudent), "The user's role.")

	promoteCmd := flag.NewFlagSet("promote", flag.ExitOnError)
	promoteEmail := promoteCmd.String("email", "", "The user's email.")
	promoteRole := promoteCmd.String("role", "", "The role to assign.")

	listUsersCmd := flag.NewFlagSet("listusers", flag.ExitOnError)
	listUsersRole := listUsersCmd.String("role", "", "Only list users holding this role.")
	listUsersSearch := listUsersCmd.String("search", "", "Only list users matching this name or email term.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, *addUserName, string(pwd), user.Role(*addUserRole))
	case "promote":
		if err := promoteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *promoteEmail == "" || *promoteRole == "" {
			promoteCmd.Usage()
			return errHelp
		}
		return cli.promote(*promoteEmail, user.Role(*promoteRole))
	case "listusers":
		if err := listUsersCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listUsers(*listUsersRole, *listUsersSearch)
	default:
		cli.printUsage()
		return errHelp
	}
}
