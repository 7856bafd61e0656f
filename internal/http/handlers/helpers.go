package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"moviedash/internal/apperr"
	httpctx "moviedash/internal/http/ctx"
	"moviedash/internal/snapshot"
)

// MustSnapshot returns the snapshot loaded by middleware, or sends 503 and
// returns (nil, false).
func MustSnapshot(ctx *fasthttp.RequestCtx) (*snapshot.Snapshot, bool) {
	s, ok := httpctx.SnapshotFromCtx(ctx)
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		ctx.SetBodyString("dataset unavailable")
		return nil, false
	}
	return s, true
}

func jsonResponse(ctx *fasthttp.RequestCtx, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetBodyString(msg)
}

// jsonError writes {"error": msg} with the status matching err's kind.
func jsonError(ctx *fasthttp.RequestCtx, err error) {
	ctx.SetStatusCode(statusFor(err))
	jsonResponse(ctx, map[string]any{"error": err.Error()})
}

func statusFor(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrInvalidInput:
		return fasthttp.StatusBadRequest
	case apperr.ErrNotFound:
		return fasthttp.StatusNotFound
	}
	return fasthttp.StatusInternalServerError
}

// queryInt parses an optional integer query argument. Absent or empty
// arguments return def; anything else that is not an integer wraps
// apperr.ErrInvalidInput.
func queryInt(ctx *fasthttp.RequestCtx, name string, def int) (int, bool, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return def, false, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, true, fmt.Errorf("%s %q is not an integer: %w", name, raw, apperr.ErrInvalidInput)
	}
	return n, true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
