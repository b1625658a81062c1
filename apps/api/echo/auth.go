package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/edutrack/portal/core"
	"github.com/edutrack/portal/core/auth"
	"github.com/edutrack/portal/core/user"
)

var contextTokenKey = "userToken"

// newJWTMiddleware configures the JWT auth middleware with the app's Claims.
func newJWTMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(auth.Claims),
	})
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			return *claims, nil
		}
	}
	return auth.Claims{}, errUnauthorized
}

// rolesMiddleware only lets authed users carrying one of roles through.
func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin)
}

func staffMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin, user.RoleFaculty)
}

// studentScopeMiddleware restricts access to a student's records: staff see
// all, a student only their own record and a parent only their linked students.
func studentScopeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			id := ctx.Param("id")

			switch claims.Role {
			case user.RoleAdmin, user.RoleFaculty:
				return next(ctx)
			case user.RoleStudent:
				if claims.StudentID == id {
					return next(ctx)
				}
			case user.RoleParent:
				for _, sid := range claims.StudentIDs {
					if sid == id {
						return next(ctx)
					}
				}
			}
			return errHttpForbidden
		}
	}
}
