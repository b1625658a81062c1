package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/user"
)

func Test_authApi_login(t *testing.T) {
	app := newTestApp(t)
	stu := app.enrollStudent(t, "John Carter", "CS101", "gparent1")

	t.Run("valid credentials", func(t *testing.T) {
		body := marchallObj(t, LoginRequest{Username: "cs101", Password: "johncarter123", Role: "student"})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var sess auth.Session
		decodeBody(t, rec, &sess)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "cs101", sess.Claims.Username)
		assert.Equal(t, user.RoleStudent, sess.Claims.Role)
		assert.Equal(t, stu.ID, sess.Claims.StudentID)

		// the token passes verification
		claims, err := app.authSvc.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.Claims, claims)
	})

	t.Run("wrong password and unknown user look alike", func(t *testing.T) {
		for _, body := range [][]byte{
			marchallObj(t, LoginRequest{Username: "cs101", Password: "wrongpass", Role: "student"}),
			marchallObj(t, LoginRequest{Username: "nosuchuser", Password: "johncarter123", Role: "student"}),
			marchallObj(t, LoginRequest{Username: "cs101", Password: "johncarter123", Role: "faculty"}),
		} {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
			app.server.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error": "invalid credentials"}`, rec.Body.String())
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		body := marchallObj(t, LoginRequest{Username: "cs101"})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		usr := app.createUser(t, "Former Admin", "fadmin", "S3cur3!pass", user.RoleAdmin)
		inactive := false
		_, err := app.usrSvc.Update(context.Background(), usr.ID, user.UpdateUser{IsActive: &inactive})
		require.NoError(t, err)

		body := marchallObj(t, LoginRequest{Username: "fadmin", Password: "S3cur3!pass", Role: "admin"})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_authApi_userEndpointsAreAdminOnly(t *testing.T) {
	app := newTestApp(t)
	stu := app.enrollStudent(t, "John Carter", "CS101", "")
	stuToken := app.getToken(t, app.studentUser(t, stu))
	admin := app.createUser(t, "Ada Admin", "aadmin", "S3cur3!pass", user.RoleAdmin)
	adminToken := app.getToken(t, admin)

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/users")
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/users", stuToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin can list users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/users", adminToken)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var users []user.User
		decodeBody(t, rec, &users)
		assert.Len(t, users, 2)
	})

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+admin.ID, adminToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
