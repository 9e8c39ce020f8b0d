package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/elimuhq/elimu/apps/api/echo"
	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/user"
	"github.com/elimuhq/elimu/core/video"
	emailsvc "github.com/elimuhq/elimu/services/email"
	logsvc "github.com/elimuhq/elimu/services/logger"
	inmemdb "github.com/elimuhq/elimu/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
		logger.Enable(true)
	}

	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	vidRepo := inmemdb.NewVideoRepository(db)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	vidSvc := video.NewService(vidRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	if conf.DevMode {
		seedDevUsers(logger, usrSvc)
	}

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Addr:       conf.Addr(),
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Shutdown:   func() { shutdown <- syscall.SIGTERM },
		UserSvc:    usrSvc,
		VideoSvc:   vidSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

// seedDevUsers creates one account per role so every portal is reachable
// out of the box. The in-memory store starts empty on each boot.
func seedDevUsers(logger core.Logger, svc user.ServiceInterface) {
	seeds := []user.NewUser{
		{Name: "Dev Student", Username: "student", Email: "student@localhost", Role: user.RoleStudent},
		{Name: "Dev Teacher", Username: "teacher", Email: "teacher@localhost", Role: user.RoleTeacher},
		{Name: "Dev Admin", Username: "admin", Email: "admin@localhost", Role: user.RoleAdmin},
	}
	for _, nu := range seeds {
		nu.Password = "LocalDev#1Pass"
		nu.PasswordConfirm = nu.Password
		if _, err := svc.Create(nu); err != nil {
			logger.Warn(fmt.Sprintf("seeding dev user %q: %v", nu.Username, err), err)
		}
	}
}
