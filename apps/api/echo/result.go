package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core/result"
)

type resultApi struct {
	svc result.Service
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc result.Service) {
	api := resultApi{svc: svc}

	rg := g.Group("/results", jwt)
	rg.POST("", api.create, staffMiddleware())
	rg.GET("/student/:id", api.list, studentScopeMiddleware())
}

// Handlers

func (api *resultApi) create(ctx echo.Context) error {
	var data result.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resultApi) list(ctx echo.Context) error {
	results, err := api.svc.ListByStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []result.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}
