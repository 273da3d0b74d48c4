package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentsphere/portal/core/access"
	"github.com/studentsphere/portal/core/session"
)

type pageResponse struct {
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

func registerPages(app *echo.Echo, deps ServerDeps) {
	app.GET(access.RouteHome, page("Home", "Welcome to Study Sphere App"))
	app.GET(access.RouteAbout, page("About", ""))
	app.GET(access.RouteContact, page("Contact", ""))

	guard := pageGuard(deps.SessionMgr)
	app.GET(access.RouteAdmin, page("Admin Page", ""), guard)
	app.GET(access.RouteTeacher, page("Teacher Page", ""), guard)
	app.GET(access.RouteStudent, page("Student Page", ""), guard)
}

func page(title, message string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, pageResponse{Title: title, Message: message})
	}
}

// pageGuard checks the active session against the requested route before the
// page renders. Anonymous visitors are sent to Login, authenticated visitors
// with the wrong role are sent Home.
func pageGuard(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, _ := sessionFromRequest(ctx, mgr)
			route := ctx.Path()
			if access.CanAccess(sess, route) {
				return next(ctx)
			}
			if sess == nil {
				return ctx.Redirect(http.StatusSeeOther, access.RouteLogin)
			}
			return ctx.Redirect(http.StatusSeeOther, access.RouteHome)
		}
	}
}
