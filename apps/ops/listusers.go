package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/adrsy6394/SkillSpring/core/user"
)

func (cli *commandLine) listUsers(role, search string) error {
	filter := user.QueryFilter{Search: search}
	if role != "" {
		filter.Roles = []user.Role{user.Role(role)}
	}

	usrs, err := cli.usrSvc.Filter(context.Background(), filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tLAST LOGIN")
	for _, u := range usrs {
		lastLogin := "never"
		if u.LastLogin.Valid {
			lastLogin = u.LastLogin.Time.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName, u.Role, lastLogin)
	}
	return w.Flush()
}
