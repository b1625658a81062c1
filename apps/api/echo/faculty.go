package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core/faculty"
)

type facultyApi struct {
	svc faculty.Service
}

func registerFacultyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc faculty.Service) {
	api := facultyApi{svc: svc}

	fg := g.Group("/faculties", jwt, adminMiddleware())
	fg.POST("", api.register)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *facultyApi) register(ctx echo.Context) error {
	var data faculty.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}

	fac, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *facultyApi) query(ctx echo.Context) error {
	faculties, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying faculties")
	}
	if faculties == nil {
		faculties = []faculty.Faculty{}
	}
	return ctx.JSON(http.StatusOK, faculties)
}

func (api *facultyApi) retrieve(ctx echo.Context) error {
	fac, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facultyApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	return ctx.NoContent(http.StatusNoContent)
}
