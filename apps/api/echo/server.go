package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		AuthSvc       auth.Service
		UserSvc       user.Service
		StudentSvc    student.Service
		FacultySvc    faculty.Service
		AttendanceSvc attendance.Service
		ResultSvc     result.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:       opts,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/api/health", health)

	api := s.app.Group("/api")
	jwt := newJWTMiddleware(conf)

	registerAuthAPI(api, jwt, s.opts.AuthSvc, s.opts.UserSvc)
	registerStudentAPI(api, jwt, s.opts.StudentSvc)
	registerFacultyAPI(api, jwt, s.opts.FacultySvc)
	registerAttendanceAPI(api, jwt, s.opts.AttendanceSvc)
	registerResultAPI(api, jwt, s.opts.ResultSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

// signalShutdown triggers a graceful shutdown from within a request.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduTrack API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
