package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/result"
	"github.com/edutrack/portal/core/student"
	"github.com/edutrack/portal/core/user"
	dummydb "github.com/edutrack/portal/storage/database/dummy"
)

type nopMailService struct{}

func (nopMailService) SendMessages(...*core.EmailMessage) {}

type testEnv struct {
	conf    *core.Config
	usrSvc  user.Service
	stuSvc  student.Service
	facSvc  faculty.Service
	authSvc Service
}

func newTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		conf:    conf,
		usrSvc:  usrSvc,
		stuSvc:  stuSvc,
		facSvc:  facSvc,
		authSvc: NewService(conf, usrSvc, stuSvc, facSvc),
	}
}

func (env *testEnv) enrollStudent(t *testing.T, name, rollNo, guardian string) student.Student {
	t.Helper()
	stu, err := env.stuSvc.Enroll(context.Background(), student.NewStudent{
		Name:             name,
		RollNo:           rollNo,
		Branch:           "Computer Science",
		Standard:         "10",
		GuardianUsername: guardian,
	})
	require.NoError(t, err)
	return stu
}

func (env *testEnv) createUser(t *testing.T, name, uname, pwd string, role user.Role) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Username:        uname,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	require.NoError(t, err)
	return usr
}

func Test_service_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stu := env.enrollStudent(t, "John Carter", "CS101", "gparent1")

	t.Run("valid credentials", func(t *testing.T) {
		sess, err := env.authSvc.Authenticate(ctx, "cs101", "johncarter123", user.RoleStudent)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "cs101", sess.Claims.Username)
		assert.Equal(t, user.RoleStudent, sess.Claims.Role)
		assert.Equal(t, stu.ID, sess.Claims.StudentID)

		// lastLogin is recorded
		usr, err := env.usrSvc.GetByID(ctx, sess.Claims.Subject)
		require.NoError(t, err)
		assert.False(t, usr.LastLogin.IsZero())
	})

	t.Run("username is normalized", func(t *testing.T) {
		sess, err := env.authSvc.Authenticate(ctx, "  CS101 ", "johncarter123", user.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, "cs101", sess.Claims.Username)
	})

	t.Run("failure paths are indistinguishable", func(t *testing.T) {
		// wrong password
		_, err := env.authSvc.Authenticate(ctx, "cs101", "wrongpass", user.RoleStudent)
		assert.Equal(t, ErrInvalidCredentials, err)

		// unknown username
		_, err = env.authSvc.Authenticate(ctx, "nosuchuser", "johncarter123", user.RoleStudent)
		assert.Equal(t, ErrInvalidCredentials, err)

		// right username, wrong role
		_, err = env.authSvc.Authenticate(ctx, "cs101", "johncarter123", user.RoleFaculty)
		assert.Equal(t, ErrInvalidCredentials, err)

		// invalid role
		_, err = env.authSvc.Authenticate(ctx, "cs101", "johncarter123", user.Role("superuser"))
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("deactivated account", func(t *testing.T) {
		usr := env.createUser(t, "Jane Admin", "jadmin", "S3cur3!pass", user.RoleAdmin)
		inactive := false
		_, err := env.usrSvc.Update(ctx, usr.ID, user.UpdateUser{IsActive: &inactive})
		require.NoError(t, err)

		_, err = env.authSvc.Authenticate(ctx, "jadmin", "S3cur3!pass", user.RoleAdmin)
		assert.Equal(t, ErrAccountDeactivated, err)
	})
}

func Test_service_UserClaims_roleLinkage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stu1 := env.enrollStudent(t, "John Carter", "CS101", "gparent1")
	stu2 := env.enrollStudent(t, "Jane Carter", "CS102", "gparent1")
	env.enrollStudent(t, "Bob Ross", "CS103", "gother")

	t.Run("student", func(t *testing.T) {
		sess, err := env.authSvc.Authenticate(ctx, "cs101", "johncarter123", user.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, stu1.ID, sess.Claims.StudentID)
		assert.Empty(t, sess.Claims.StudentIDs)
		assert.Empty(t, sess.Claims.SubjectName)
	})

	t.Run("parent gets all linked students", func(t *testing.T) {
		env.createUser(t, "Gail Parent", "gparent1", "S3cur3!pass", user.RoleParent)

		sess, err := env.authSvc.Authenticate(ctx, "gparent1", "S3cur3!pass", user.RoleParent)
		require.NoError(t, err)
		assert.Equal(t, []string{stu1.ID, stu2.ID}, sess.Claims.StudentIDs)
		assert.Equal(t, stu1.ID, sess.Claims.StudentID)
	})

	t.Run("parent without linked students", func(t *testing.T) {
		env.createUser(t, "No Kids", "nokids", "S3cur3!pass", user.RoleParent)

		sess, err := env.authSvc.Authenticate(ctx, "nokids", "S3cur3!pass", user.RoleParent)
		require.NoError(t, err)
		assert.Empty(t, sess.Claims.StudentIDs)
		assert.Empty(t, sess.Claims.StudentID)
	})

	t.Run("faculty gets subject", func(t *testing.T) {
		_, err := env.facSvc.Register(ctx, faculty.NewFaculty{
			Name:     "Alan Turing",
			Subject:  "Mathematics",
			Username: "aturing",
			Password: "S3cur3!pass",
		})
		require.NoError(t, err)

		sess, err := env.authSvc.Authenticate(ctx, "aturing", "S3cur3!pass", user.RoleFaculty)
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", sess.Claims.SubjectName)
		assert.Empty(t, sess.Claims.StudentID)
	})

	t.Run("admin carries no linkage", func(t *testing.T) {
		env.createUser(t, "Ada Admin", "aadmin", "S3cur3!pass", user.RoleAdmin)

		sess, err := env.authSvc.Authenticate(ctx, "aadmin", "S3cur3!pass", user.RoleAdmin)
		require.NoError(t, err)
		assert.Empty(t, sess.Claims.StudentID)
		assert.Empty(t, sess.Claims.StudentIDs)
		assert.Empty(t, sess.Claims.SubjectName)
	})
}

func Test_service_Verify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.enrollStudent(t, "John Carter", "CS101", "")
	sess, err := env.authSvc.Authenticate(ctx, "cs101", "johncarter123", user.RoleStudent)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := env.authSvc.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.Claims, claims)
		assert.Equal(t, int64(24*time.Hour/time.Second), claims.ExpiresAt-claims.IssuedAt)
	})

	t.Run("expired token", func(t *testing.T) {
		origNowFunc := nowFunc
		defer func() { nowFunc = origNowFunc }()
		nowFunc = func() time.Time { return time.Now().Add(-48 * time.Hour) }

		usr, err := env.usrSvc.GetByUsernameAndRole(ctx, "cs101", user.RoleStudent)
		require.NoError(t, err)
		claims, err := env.authSvc.UserClaims(ctx, usr)
		require.NoError(t, err)
		token, err := env.authSvc.GenerateToken(claims)
		require.NoError(t, err)

		_, err = env.authSvc.Verify(token)
		assert.Equal(t, ErrTokenExpired, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := env.authSvc.Verify(sess.Token + "x")
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		otherConf := *env.conf
		otherConf.SecretKey = []byte("an0ther5ecr3t")
		otherSvc := NewService(&otherConf, env.usrSvc, env.stuSvc, env.facSvc)

		token, err := otherSvc.GenerateToken(sess.Claims)
		require.NoError(t, err)

		_, err = env.authSvc.Verify(token)
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.authSvc.Verify("not.a.jwt")
		assert.Equal(t, ErrTokenInvalid, err)
	})
}
