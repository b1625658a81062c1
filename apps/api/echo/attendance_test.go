package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/portal/core/attendance"
	"github.com/edutrack/portal/core/faculty"
	"github.com/edutrack/portal/core/user"
)

func Test_attendanceApi_mark(t *testing.T) {
	app := newTestApp(t)
	stu := app.enrollStudent(t, "John Carter", "CS101", "")
	stuToken := app.getToken(t, app.studentUser(t, stu))

	_, err := app.facSvc.Register(context.Background(), faculty.NewFaculty{
		Name: "Alan Turing", Subject: "Mathematics", Username: "aturing", Password: "S3cur3!pass",
	})
	require.NoError(t, err)
	facUsr, err := app.usrSvc.GetByUsernameAndRole(context.Background(), "aturing", user.RoleFaculty)
	require.NoError(t, err)
	facToken := app.getToken(t, facUsr)

	t.Run("faculty can mark", func(t *testing.T) {
		body := marchallObj(t, attendance.NewRecord{
			StudentID: stu.ID, Date: "2025-03-03", Time: "09:00", Subject: "Mathematics", Status: attendance.StatusPresent,
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", facToken, body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var record attendance.Record
		decodeBody(t, rec, &record)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, "2025-03-03", record.Date)
	})

	t.Run("students cannot mark", func(t *testing.T) {
		body := marchallObj(t, attendance.NewRecord{
			StudentID: stu.ID, Date: "2025-03-04", Subject: "Mathematics", Status: attendance.StatusPresent,
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", stuToken, body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Sunday is rejected", func(t *testing.T) {
		body := marchallObj(t, attendance.NewRecord{
			StudentID: stu.ID, Date: "2025-03-09", Subject: "Mathematics", Status: attendance.StatusPresent,
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", facToken, body)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sunday")
	})

	t.Run("invalid status", func(t *testing.T) {
		body := marchallObj(t, attendance.NewRecord{
			StudentID: stu.ID, Date: "2025-03-04", Subject: "Mathematics", Status: "late",
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", facToken, body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_attendanceApi_monthView(t *testing.T) {
	app := newTestApp(t)
	stu1 := app.enrollStudent(t, "John Carter", "CS101", "gparent1")
	stu2 := app.enrollStudent(t, "Bob Ross", "CS102", "gother")
	stu1Token := app.getToken(t, app.studentUser(t, stu1))

	mark := func(date, subject string, status attendance.Status) {
		_, err := app.attSvc.Mark(context.Background(), attendance.NewRecord{
			StudentID: stu1.ID, Date: date, Subject: subject, Status: status,
		})
		require.NoError(t, err)
	}
	mark("2025-03-03", "Mathematics", attendance.StatusPresent)
	mark("2025-03-03", "Physics", attendance.StatusAbsent)
	mark("2025-03-10", "Mathematics", attendance.StatusAbsent)

	calendarPath := func(id string, query string) string {
		return fmt.Sprintf("/api/attendance/student/%s/calendar?%s", id, query)
	}

	t.Run("student sees own calendar", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu1.ID, "year=2025&month=3"), stu1Token)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp MonthViewResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Calendar, 31)
		assert.Equal(t, attendance.DayPresent, resp.Calendar[2].Status)  // Mar 3
		assert.Equal(t, attendance.DayHoliday, resp.Calendar[8].Status)  // Sunday Mar 9
		assert.Equal(t, attendance.DayAbsent, resp.Calendar[9].Status)   // Mar 10
		assert.Equal(t, attendance.MonthlyStats{WorkingDays: 2, PresentDays: 1, Percentage: 50}, resp.Stats)
	})

	t.Run("subject filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu1.ID, "year=2025&month=3&subject=Physics"), stu1Token)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp MonthViewResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, attendance.DayAbsent, resp.Calendar[2].Status)
		assert.Equal(t, attendance.MonthlyStats{WorkingDays: 1, PresentDays: 0, Percentage: 0}, resp.Stats)
	})

	t.Run("student cannot see another student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu2.ID, "year=2025&month=3"), stu1Token)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("parent sees linked student", func(t *testing.T) {
		parent := app.createUser(t, "Gail Parent", "gparent1", "S3cur3!pass", user.RoleParent)
		parentToken := app.getToken(t, parent)

		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu1.ID, "year=2025&month=3"), parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, calendarPath(stu2.ID, "year=2025&month=3"), parentToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid month", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu1.ID, "year=2025&month=13"), stu1Token)
		app.server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "month")
	})

	t.Run("missing year", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, calendarPath(stu1.ID, "month=3"), stu1Token)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
