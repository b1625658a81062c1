package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core/student"
)

type studentApi struct {
	svc student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt)
	sg.POST("", api.enroll, adminMiddleware())
	sg.GET("", api.query, staffMiddleware())
	sg.GET("/:id", api.retrieve, studentScopeMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *studentApi) enroll(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	stu, err := api.svc.Enroll(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
