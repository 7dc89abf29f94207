package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openfield/auth-system/internal/core/model"
)

// requestContext builds the explicit request context handed to services and,
// through them, to default-value providers: one "now" per request and the
// client address.
func requestContext(c echo.Context) *model.RequestContext {
	return &model.RequestContext{
		Now:        time.Now().UTC(),
		ClientAddr: c.RealIP(),
	}
}

// ctxUserID extracts the subject claim injected by the Auth middleware and
// fails fast when the middleware did not run.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
