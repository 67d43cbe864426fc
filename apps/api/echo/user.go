package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core"
	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token           string    `json:"token"`
		User            user.User `json:"user"`
		CurrentDeviceID string    `json:"currentDeviceId"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	DeviceRemovedResponse struct {
		Message string    `json:"message"`
		User    user.User `json:"user"`
	}
)

type authApi struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := authApi{opts: opts}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/password-reset*`
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := api.opts.Validate.Struct(&data); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	usr, err := api.opts.UserSvc.Authenticate(reqCtx, data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errLoginFailed
		}
		return errors.Wrap(err, "authenticating")
	}

	usr, deviceID, err := api.opts.UserSvc.RecordLogin(reqCtx, usr, user.DeviceInfo{
		UserAgent: ctx.Request().UserAgent(),
		IP:        ctx.RealIP(),
	})
	if err != nil {
		return errors.Wrap(err, "recording login")
	}

	token, err := GenerateToken(api.opts.Conf, GetUserClaims(api.opts.Conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr, CurrentDeviceID: deviceID})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := api.opts.Validate.Struct(&data); err != nil {
		return err
	}

	err := api.opts.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email)
	if err != nil && !core.IsNotFound(err) {
		// do not return errors to attackers
		api.opts.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, MessageResponse{
		Message: "If the email address supplied is associated with an active account, " +
			"instructions to reset your password will arrive shortly.",
	})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset with the new password."})
}

type userApi struct {
	opts     *Options
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := userApi{opts: opts, validate: opts.Validate}

	ug := g.Group("/users")

	// open only while the store is empty (owner bootstrap)
	ug.POST("", api.create, bootstrapOrJWT(opts.UserSvc, jwt))

	ag := ug.Group("", jwt)
	ag.GET("", api.query)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy, adminMiddleware())
	ag.DELETE("/:userId/devices/:deviceId", api.removeDevice)
}

func (api *userApi) create(ctx echo.Context) error {
	// only admins may add users once the store is bootstrapped; checked
	// before validation so the uniqueness check cannot leak usernames
	if claims, err := getContextClaims(ctx); err == nil && !claims.IsAdmin() {
		return errHttpForbidden
	}

	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.opts.UserSvc); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.opts.UserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, err := api.opts.UserSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	ctxUsr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// `Role` and `IsLeft` can only be changed by admin;
	// non-admins can only update themselves
	if !ctxUsr.IsAdmin() {
		if usr.ID != ctxUsr.ID || data.Role != nil || data.IsLeft != nil {
			return errHttpForbidden
		}
	}

	if err := data.Validate(usr, api.validate, api.opts.UserSvc); err != nil {
		return err
	}

	usr, err = api.opts.UserSvc.Update(reqCtx, usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	// ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if ctx.Param("id") == ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.opts.UserSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Deleted"})
}

func (api *userApi) removeDevice(ctx echo.Context) error {
	userID, deviceID := ctx.Param("userId"), ctx.Param("deviceId")

	// devices may only be managed by their owner or an admin
	ctxUsr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if userID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return errHttpForbidden
	}

	usr, err := api.opts.UserSvc.RemoveDevice(ctx.Request().Context(), userID, deviceID)
	if err != nil {
		return errors.Wrap(err, "removing device")
	}
	return ctx.JSON(http.StatusOK, DeviceRemovedResponse{Message: "Device removed", User: usr})
}
