package server

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"gpurouter/pkg/known"
)

// RequestID tags every request with an id, reusing the caller's
// X-Request-ID when present.
func RequestID() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := string(c.GetHeader(known.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(known.RequestIDKey, id)
		c.Header(known.RequestIDHeader, id)
		c.Next(ctx)
	}
}

// AccessLog logs one line per request once the handler chain returns.
func AccessLog() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		hlog.CtxInfof(ctx, "[%s] %s %s %d %s",
			c.GetString(known.RequestIDKey),
			c.Method(), c.Path(),
			c.Response.StatusCode(),
			time.Since(start))
	}
}
