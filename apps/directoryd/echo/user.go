package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/user"
)

type (
	userAPI struct {
		svc        *user.Service
		validate   *validator.Validate
		translator ut.Translator
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	usersResponse struct {
		Count int         `json:"count"`
		Users []user.User `json:"users"`
	}

	verifyResponse struct {
		Message string `json:"message"`
	}
)

func registerUserAPI(app *echo.Echo, deps ServerDeps) {
	api := userAPI{
		svc:        deps.UserSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	app.GET("/users", api.query)
	app.POST("/users", api.create)
	app.GET("/verify/:token", api.verifyEmail)
	app.POST("/login", api.login)
}

// Handlers

func (api *userAPI) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usersResponse{Count: len(users), Users: users})
}

func (api *userAPI) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userAPI) verifyEmail(ctx echo.Context) error {
	_, err := api.svc.VerifyEmail(ctx.Request().Context(), ctx.Param("token"))
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrTokenExpired:
			return errTokenExpired
		case user.ErrInvalidToken:
			return errTokenInvalid
		}
		return err
	}
	return ctx.JSON(http.StatusOK, verifyResponse{Message: "Email verified, you can now log in"})
}

func (api *userAPI) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	data.Email = core.CleanString(data.Email, true)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	usr, err := api.svc.CheckLogin(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}
