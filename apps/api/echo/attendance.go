package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/attendance"
)

type attendanceApi struct {
	svc attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, staffMiddleware())

	sg := ag.Group("/student/:id", studentScopeMiddleware())
	sg.GET("", api.list)
	sg.GET("/calendar", api.monthView)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) list(ctx echo.Context) error {
	records, err := api.svc.ListByStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) monthView(ctx echo.Context) error {
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "year", Error: "invalid year"})
	}
	month, err := strconv.Atoi(ctx.QueryParam("month"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "month", Error: "invalid month"})
	}

	var subject []string
	if s := ctx.QueryParam("subject"); s != "" {
		subject = append(subject, s)
	}

	calendar, stats, err := api.svc.MonthView(ctx.Request().Context(), ctx.Param("id"), year, time.Month(month), subject...)
	if err != nil {
		switch errors.Cause(err) {
		case attendance.ErrInvalidYear:
			return core.NewValidationError(err, core.FieldError{Field: "year", Error: err.Error()})
		case attendance.ErrInvalidMonth:
			return core.NewValidationError(err, core.FieldError{Field: "month", Error: err.Error()})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, MonthViewResponse{Calendar: calendar, Stats: stats})
}

type MonthViewResponse struct {
	Calendar []attendance.DayCell    `json:"calendar"`
	Stats    attendance.MonthlyStats `json:"stats"`
}
