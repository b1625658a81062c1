package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
	dummydb "github.com/edutrack/portal/storage/database/dummy"
)

type nopMailService struct{}

func (nopMailService) SendMessages(...*core.EmailMessage) {}

type testApp struct {
	server  Server
	conf    *core.Config
	authSvc auth.Service
	usrSvc  user.Service
	stuSvc  student.Service
	facSvc  faculty.Service
	attSvc  attendance.Service
	resSvc  result.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "EduTrack",
		SecretKey:                 []byte("0d3adb33f5ecr3tk3y"),
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta: 24 * time.Hour,
		},
	}

	db, err := dummydb.Open()
	require.NoError(t, err)

	usrSvc := user.NewService(conf, dummydb.NewUserRepository(db), nopMailService{})
	attSvc := attendance.NewService(dummydb.NewAttendanceRepository(db))
	resSvc := result.NewService(dummydb.NewResultRepository(db))
	stuSvc := student.NewService(dummydb.NewStudentRepository(db), usrSvc, attSvc, resSvc, nopMailService{})
	facSvc := faculty.NewService(dummydb.NewFacultyRepository(db), usrSvc)
	authSvc := auth.NewService(conf, usrSvc, stuSvc, facSvc)

	server := NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         nopLogger{},
		AuthSvc:        authSvc,
		UserSvc:        usrSvc,
		StudentSvc:     stuSvc,
		FacultySvc:     facSvc,
		AttendanceSvc:  attSvc,
		ResultSvc:      resSvc,
	})

	return &testApp{
		server:  server,
		conf:    conf,
		authSvc: authSvc,
		usrSvc:  usrSvc,
		stuSvc:  stuSvc,
		facSvc:  facSvc,
		attSvc:  attSvc,
		resSvc:  resSvc,
	}
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims, err := app.authSvc.UserClaims(context.Background(), usr)
	require.NoError(t, err)
	token, err := app.authSvc.GenerateToken(claims)
	require.NoError(t, err)
	return token
}

func (app *testApp) createUser(t *testing.T, name, uname, pwd string, role user.Role) user.User {
	t.Helper()
	usr, err := app.usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Username:        uname,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	require.NoError(t, err)
	return usr
}

func (app *testApp) enrollStudent(t *testing.T, name, rollNo, guardian string) student.Student {
	t.Helper()
	stu, err := app.stuSvc.Enroll(context.Background(), student.NewStudent{
		Name:             name,
		RollNo:           rollNo,
		Branch:           "Computer Science",
		Standard:         "10",
		GuardianUsername: guardian,
	})
	require.NoError(t, err)
	return stu
}

func (app *testApp) studentUser(t *testing.T, stu student.Student) user.User {
	t.Helper()
	usr, err := app.usrSvc.GetByID(context.Background(), stu.UserID)
	require.NoError(t, err)
	return usr
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
