package echoapi

import (
	"net/http"
	"net/url"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/elimuhq/elimu/core/session"
	"github.com/elimuhq/elimu/core/user"
)

// SessionCookieName carries the auth token for the browser-facing portal
// pages; the JSON API uses the Authorization header instead.
const SessionCookieName = "session"

// registerPortal mounts the role-gated portal pages behind the access guard.
func registerPortal(app *echo.Echo, svc user.ServiceInterface) {
	pg := app.Group("/portal")

	pg.GET("", portalPage("portal home"),
		guardMiddleware(session.Route{Path: "/portal"}, svc))
	pg.GET("/student", portalPage("student portal"),
		guardMiddleware(session.Route{Path: "/portal/student", Roles: []string{user.RoleStudent}}, svc))
	pg.GET("/teacher", portalPage("teacher portal"),
		guardMiddleware(session.Route{Path: "/portal/teacher", Roles: []string{user.RoleTeacher}}, svc))
	pg.GET("/admin", portalPage("admin portal"),
		guardMiddleware(session.Route{Path: "/portal/admin", Roles: []string{user.RoleAdmin}}, svc))
}

func portalPage(name string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"page": name})
	}
}

// guardMiddleware runs the session access guard against each navigation
// attempt: unauthenticated visitors are sent to the login page with the
// original path preserved, authenticated ones lacking the route's role are
// sent to the route's fallback.
func guardMiddleware(route session.Route, svc user.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			// A server-built snapshot is never loading, so Decide can only
			// yield Render or Redirect here.
			decision := session.Decide(guardSnapshot(ctx, svc), route)
			if decision.Kind == session.Redirect {
				target := decision.Target
				if decision.Next != "" {
					target += "?next=" + url.QueryEscape(decision.Next)
				}
				return ctx.Redirect(http.StatusFound, target)
			}
			return next(ctx)
		}
	}
}

// guardSnapshot resolves the session cookie into a session snapshot. Any
// failure (no cookie, bad token, unknown or deactivated user) yields an
// unauthenticated snapshot rather than an error.
func guardSnapshot(ctx echo.Context, svc user.ServiceInterface) session.Snapshot {
	cookie, err := ctx.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return session.Snapshot{}
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (interface{}, error) {
		return jwtConf.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return session.Snapshot{}
	}

	usr, err := svc.GetByID(claims.Subject)
	if err != nil || !usr.IsActive {
		return session.Snapshot{}
	}
	return session.Snapshot{Token: cookie.Value, User: &usr}
}
