package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core/notif"
)

type (
	DeriveNotificationsRequest struct {
		// the previously derived set held by the client; resolved entries
		// are carried over as history
		Notifications []notif.Notification `json:"notifications"`
	}

	DeriveNotificationsResponse struct {
		Notifications []notif.Notification `json:"notifications"`
	}
)

type notificationApi struct {
	opts *Options
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := notificationApi{opts: opts}

	ng := g.Group("/notifications", jwt)
	// salary reminders are an admin concern; teachers never see each
	// other's reminders
	ng.POST("/derive", api.derive, adminMiddleware())
}

// derive recomputes the salary-due reminder set from current teacher
// records. The fold is idempotent: posting the response back with unchanged
// teacher data returns an equal set.
func (api *notificationApi) derive(ctx echo.Context) error {
	var data DeriveNotificationsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeriveNotificationsRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	users, err := api.opts.UserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	notes := notif.Derive(data.Notifications, claims.Subject, users, time.Now())
	if notes == nil {
		notes = []notif.Notification{}
	}
	return ctx.JSON(http.StatusOK, DeriveNotificationsResponse{Notifications: notes})
}
