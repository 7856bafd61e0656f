package middleware

import (
	"context"

	"github.com/valyala/fasthttp"

	httpctx "moviedash/internal/http/ctx"
	"moviedash/internal/snapshot"
)

// SnapshotSource returns the snapshot for a key. *snapshot.Cache satisfies it.
type SnapshotSource interface {
	Get(ctx context.Context, key snapshot.Key) (*snapshot.Snapshot, error)
}

// Snapshot returns middleware that loads the snapshot for key (building it
// on first use) and sets it on the request context.
func Snapshot(src SnapshotSource, key snapshot.Key) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			s, err := src.Get(ctx, key)
			if err != nil {
				ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
				ctx.SetBodyString("dataset unavailable")
				return
			}
			httpctx.SetSnapshot(ctx, s)
			next(ctx)
		}
	}
}
