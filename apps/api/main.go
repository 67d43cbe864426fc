package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aslbekqoziboyev/lc-backend/apps/api/echo"
	"github.com/aslbekqoziboyev/lc-backend/core"
	"github.com/aslbekqoziboyev/lc-backend/core/course"
	"github.com/aslbekqoziboyev/lc-backend/core/student"
	"github.com/aslbekqoziboyev/lc-backend/core/user"
	"github.com/aslbekqoziboyev/lc-backend/services/email"
	"github.com/aslbekqoziboyev/lc-backend/services/logger"
	"github.com/aslbekqoziboyev/lc-backend/storage/database"
	"github.com/aslbekqoziboyev/lc-backend/storage/database/inmem"
	"github.com/aslbekqoziboyev/lc-backend/storage/database/sqlx"
)

// build is injected at compile time (-ldflags "-X main.build=...").
var build = "dev"

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig(build)
	if err != nil {
		std.Fatalf("loading config: %v", err)
	}

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// set up repositories; an unset database name selects the in-memory store
	var (
		usrRepo user.Repository
		crsRepo course.Repository
		stdRepo student.Repository
	)
	if conf.Database.Name == "" {
		db, err := inmemdb.Open()
		if err != nil {
			std.Fatalf("opening in-memory DB: %v", err)
		}
		usrRepo = inmemdb.NewUserRepository(db)
		crsRepo = inmemdb.NewCourseRepository(db)
		stdRepo = inmemdb.NewStudentRepository(db)
		logger.Warn("no database configured; using the in-memory store")
	} else {
		db, err := database.Open(conf)
		if err != nil {
			std.Fatalf("opening DB: %v", err)
		}
		defer db.Close()
		usrRepo = sqlxrepos.NewUserRepository(db)
		crsRepo = sqlxrepos.NewCourseRepository(db)
		stdRepo = sqlxrepos.NewStudentRepository(db)
	}

	validate, translator := core.NewValidator()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:       conf.ServerAddress(),
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    user.NewService(conf, usrRepo, mailSvc),
		CourseSvc:  course.NewService(crsRepo),
		StudentSvc: student.NewService(stdRepo),
		Shutdown:   shutdown,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + conf.ServerAddress())
		serverErrors <- app.Start()
	}()

	select {
	case err := <-serverErrors:
		std.Fatalf("server error: %v", err)
	case sig := <-shutdown:
		logger.Info("shutdown started: " + sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			std.Fatalf("graceful shutdown failed: %v", err)
		}
	}
}
