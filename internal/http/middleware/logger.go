package middleware

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	httpctx "moviedash/internal/http/ctx"
)

// RequestLogger returns middleware that logs method, path, status and
// duration of every request. Server errors log at error level.
//
//nolint:gocritic // zerolog.Logger is passed by value
func RequestLogger(logger zerolog.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			status := ctx.Response.StatusCode()
			ev := logger.Info()
			if status >= fasthttp.StatusInternalServerError {
				ev = logger.Error()
			}
			if id, ok := httpctx.RequestIDFromCtx(ctx); ok {
				ev = ev.Str("request_id", id)
			}
			ev.Bytes("method", ctx.Method()).
				Bytes("path", ctx.Path()).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("ip", ctx.RemoteIP().String()).
				Msg("request")
		}
	}
}
