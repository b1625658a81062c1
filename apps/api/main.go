package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/edutrack/portal/apps/api/echo"
	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
	_ "github.com/edutrack/portal/fs"
	emailsvc "github.com/edutrack/portal/services/email"
	logsvc "github.com/edutrack/portal/services/logger"
	"github.com/edutrack/portal/storage/database"
	sqlxrepos "github.com/edutrack/portal/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(db), mailSvc)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	resSvc := result.NewService(sqlxrepos.NewResultRepository(db))
	stuSvc := student.NewService(sqlxrepos.NewStudentRepository(db), usrSvc, attSvc, resSvc, mailSvc)
	facSvc := faculty.NewService(sqlxrepos.NewFacultyRepository(db), usrSvc)
	authSvc := auth.NewService(conf, usrSvc, stuSvc, facSvc)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Address:       conf.Server.Address(),
		Conf:          conf,
		Logger:        logger,
		AuthSvc:       authSvc,
		UserSvc:       usrSvc,
		StudentSvc:    stuSvc,
		FacultySvc:    facSvc,
		AttendanceSvc: attSvc,
		ResultSvc:     resSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
