package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/access"
	"github.com/studentsphere/portal/core/session"
	"github.com/studentsphere/portal/core/user"
)

type (
	authAPI struct {
		auth       *user.Authenticator
		sessionMgr *session.Manager
		validate   *validator.Validate
		translator ut.Translator
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	loginResponse struct {
		Token    string    `json:"token"`
		Role     user.Role `json:"role"`
		Redirect string    `json:"redirect"`
	}

	sessionResponse struct {
		Role  user.Role        `json:"role"`
		Links []access.NavLink `json:"links"`
	}

	navResponse struct {
		Links []access.NavLink `json:"links"`
	}
)

func registerAuthAPI(app *echo.Echo, deps ServerDeps) {
	api := authAPI{
		auth:       deps.Authenticator,
		sessionMgr: deps.SessionMgr,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	app.POST(access.RouteLogin, api.login)
	app.POST(access.RouteLogout, api.logout)
	app.GET("/session", api.session)
	app.GET("/nav", api.nav)
}

// Handlers

func (api *authAPI) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	data.Email = core.CleanString(data.Email, true)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	usr, err := api.auth.Authenticate(reqCtx, data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials, user.ErrUnknownRole:
			return errLoginFailed
		case user.ErrDirectoryUnavailable:
			return errLoginUnavailable
		}
		return err
	}

	sess := api.sessionMgr.Issue(reqCtx, usr.Role)
	redirect, _ := access.RolePage(sess.Role)
	return ctx.JSON(http.StatusOK, loginResponse{
		Token:    sess.Token,
		Role:     sess.Role,
		Redirect: redirect,
	})
}

func (api *authAPI) logout(ctx echo.Context) error {
	api.sessionMgr.Clear(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authAPI) session(ctx echo.Context) error {
	sess, ok := sessionFromRequest(ctx, api.sessionMgr)
	if !ok {
		return errSessionNotFound
	}
	return ctx.JSON(http.StatusOK, sessionResponse{
		Role:  sess.Role,
		Links: access.ResolveLinks(sess),
	})
}

func (api *authAPI) nav(ctx echo.Context) error {
	sess, _ := sessionFromRequest(ctx, api.sessionMgr)
	return ctx.JSON(http.StatusOK, navResponse{Links: access.ResolveLinks(sess)})
}

// sessionFromRequest matches the request's bearer token against the active
// session. A missing or mismatched token counts as anonymous.
func sessionFromRequest(ctx echo.Context, mgr *session.Manager) (*session.Session, bool) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, false
	}

	sess, ok := mgr.Current()
	if !ok {
		if sess, ok = mgr.Restore(ctx.Request().Context()); !ok {
			return nil, false
		}
	}
	if sess.Token != token {
		return nil, false
	}
	return &sess, true
}
