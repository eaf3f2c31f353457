package webapp

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
	emailsvc "github.com/adrsy6394/SkillSpring/services/email"
	"github.com/adrsy6394/SkillSpring/services/identity"
	logsvc "github.com/adrsy6394/SkillSpring/services/logger"
	rediscache "github.com/adrsy6394/SkillSpring/storage/cache/redis"
	"github.com/adrsy6394/SkillSpring/storage/database"
	sqlxrepos "github.com/adrsy6394/SkillSpring/storage/database/sqlx"
)

// Run wires the shared infrastructure and serves the deployment newDep
// describes until a signal or a shutdown error stops it. Every front end
// binary is this function plus a Deployment.
func Run(newDep func(conf *core.Config) Deployment) error {
	conf := core.NewConfig()
	core.InitMail(conf)

	var logger core.Logger
	if conf.Debug {
		zl, err := logsvc.NewZapLogger(conf)
		if err != nil {
			return errors.Wrap(err, "setting up logger")
		}
		logger = zl
	} else {
		logger = logsvc.NewRollbarLogger(stdlog.Default(), conf)
	}

	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, logger)
	cache := rediscache.NewRoleCache(conf, logger)
	defer func() { _ = cache.Close() }()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	srv := NewServer(&Options{
		Addr:       conf.Server.Address(),
		Conf:       conf,
		Deployment: newDep(conf),
		Identity:   identity.NewClient(conf, logger),
		UserSvc:    usrSvc,
		Cache:      cache,
		Logger:     logger,
		Shutdown:   shutdown,
	})

	serverErrors := make(chan error, 1)
	go func() { serverErrors <- srv.Start() }()

	select {
	case err = <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-shutdown:
		logger.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err = srv.Stop(ctx); err != nil {
			return errors.Wrap(err, "stopping server")
		}
	}
	return nil
}
