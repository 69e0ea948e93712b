package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ActorHeader carries the authenticated user id, set by the session layer
// in front of this service.
const ActorHeader = "X-User-ID"

type actorKey struct{}

// IdentifyActor stores the caller's user id on the request context.
// Requests without the header proceed anonymously.
func IdentifyActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
		if actor != "" {
			ctx := context.WithValue(c.Request().Context(), actorKey{}, actor)
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("RequesterId", actor))
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

// ActorID returns the caller's user id, or "" when anonymous.
func ActorID(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
