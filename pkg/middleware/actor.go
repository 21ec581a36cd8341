package middleware

import (
	"context"

	"fulfillment-system/pkg/contextkeys"

	"github.com/labstack/echo/v4"
)

// ActorMiddleware lifts the operator identity resolved by the upstream
// auth gateway into the request context. When the header is absent the
// actor defaults to "system" so background callers still produce a
// traceable audit trail.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := c.Request().Header.Get("X-Actor")
			if actor == "" {
				actor = "system"
			}
			ctx := context.WithValue(c.Request().Context(), contextkeys.ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
