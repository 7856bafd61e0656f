package handlers

import (
	"github.com/valyala/fasthttp"

	"moviedash/internal/snapshot"
)

// Invalidator drops cached snapshots. *snapshot.Cache satisfies it.
type Invalidator interface {
	Invalidate(key snapshot.Key) bool
}

// InvalidateSnapshot drops the cached snapshot for key so the next page
// load regenerates it. Browsers are redirected home; API clients asking for
// JSON get the outcome.
func InvalidateSnapshot(cache Invalidator, key snapshot.Key) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		dropped := cache.Invalidate(key)
		if string(ctx.Request.Header.Peek("Accept")) == "application/json" {
			jsonResponse(ctx, map[string]any{"invalidated": dropped, "key": key})
			return
		}
		ctx.Redirect("/", fasthttp.StatusSeeOther)
	}
}
