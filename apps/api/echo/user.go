package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/user"
)

type authApi struct {
	svc    auth.Service
	usrSvc user.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc auth.Service, usrSvc user.Service) {
	api := authApi{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ug := g.Group("/users", jwt, adminMiddleware())
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.DELETE("/:id", api.destroy)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password, user.Role(data.Role))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.usrSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.usrSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *authApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.usrSvc); err != nil {
		return err
	}

	usr, err := api.usrSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *authApi) query(ctx echo.Context) error {
	users, err := api.usrSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *authApi) destroy(ctx echo.Context) error {
	// ctxUser cannot delete themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id := ctx.Param("id")
	if id == claims.Subject {
		return errHttpForbidden
	}

	if _, err := api.usrSvc.GetByID(ctx.Request().Context(), id); err != nil {
		return err
	}
	if err := api.usrSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role" validate:"required"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	lr.Role = core.CleanString(lr.Role, true /* lower */)
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}
