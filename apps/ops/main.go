// Command ops is the operator CLI: migrations, account provisioning and
// role changes.
package main

import (
	"log"
	"os"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
	emailsvc "github.com/adrsy6394/SkillSpring/services/email"
	"github.com/adrsy6394/SkillSpring/services/identity"
	"github.com/adrsy6394/SkillSpring/storage/database"
	sqlxrepos "github.com/adrsy6394/SkillSpring/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "OPS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	core.InitMail(conf)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	// start CLI
	cli := commandLine{
		conf:   conf,
		db:     db,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf), nil),
		idSvc:  identity.NewClient(conf, nil),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
