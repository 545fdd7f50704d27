package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alkewallet/wallet-service/internal/api/middleware"
)

// ctxIdentity returns the caller identity injected by the Auth middleware.
// An empty value means the route was mounted without it.
func ctxIdentity(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextIdentityID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

func ctxToken(c echo.Context) (string, time.Time) {
	id, _ := c.Get(middleware.ContextTokenID).(string)
	exp, _ := c.Get(middleware.ContextTokenExp).(time.Time)
	return id, exp
}
