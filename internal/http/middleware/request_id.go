package middleware

import (
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	httpctx "moviedash/internal/http/ctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing a well-formed incoming
// X-Request-ID, and echoes it in the response.
func RequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		httpctx.SetRequestID(ctx, id)
		ctx.Response.Header.Set(requestIDHeader, id)
		next(ctx)
		// ctx.Error (router 404/405, panics) resets the response headers.
		ctx.Response.Header.Set(requestIDHeader, id)
	}
}
