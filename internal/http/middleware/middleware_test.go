package middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	httpctx "moviedash/internal/http/ctx"
	"moviedash/internal/snapshot"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(func(ctx *fasthttp.RequestCtx) {
		seen, _ = httpctx.RequestIDFromCtx(ctx)
	})

	var ctx fasthttp.RequestCtx
	h(&ctx)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid", seen)
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	incoming := uuid.NewString()
	var seen string
	h := RequestID(func(ctx *fasthttp.RequestCtx) {
		seen, _ = httpctx.RequestIDFromCtx(ctx)
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-Request-ID", incoming)
	h(&ctx)
	if seen != incoming {
		t.Errorf("request id = %q, want incoming %q", seen, incoming)
	}

	var bad fasthttp.RequestCtx
	bad.Request.Header.Set("X-Request-ID", "<script>")
	h(&bad)
	if seen == "<script>" {
		t.Error("malformed incoming id should be replaced")
	}
}

func TestRequestIDSurvivesErrorResponse(t *testing.T) {
	var seen string
	h := RequestID(func(ctx *fasthttp.RequestCtx) {
		seen, _ = httpctx.RequestIDFromCtx(ctx)
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	})

	var ctx fasthttp.RequestCtx
	h(&ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got == "" || got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := RequestID(RequestLogger(logger)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTeapot)
	}))

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/analytics")
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	h(&ctx)

	out := buf.String()
	for _, want := range []string{`"path":"/analytics"`, `"status":418`, `"method":"GET"`, `"request_id":`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

type fakeSource struct {
	snap *snapshot.Snapshot
	err  error
	keys []snapshot.Key
}

func (f *fakeSource) Get(_ context.Context, key snapshot.Key) (*snapshot.Snapshot, error) {
	f.keys = append(f.keys, key)
	return f.snap, f.err
}

func TestSnapshotMiddleware(t *testing.T) {
	key := snapshot.Key{MovieCount: 3, UserCount: 1, Seed: 5}
	src := &fakeSource{snap: &snapshot.Snapshot{Key: key}}

	var got *snapshot.Snapshot
	h := Snapshot(src, key)(func(ctx *fasthttp.RequestCtx) {
		got, _ = httpctx.SnapshotFromCtx(ctx)
	})

	var ctx fasthttp.RequestCtx
	h(&ctx)
	if got != src.snap {
		t.Error("snapshot not set on context")
	}
	if len(src.keys) != 1 || src.keys[0] != key {
		t.Errorf("source asked for %v, want [%v]", src.keys, key)
	}
}

func TestSnapshotMiddlewareError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	called := false
	h := Snapshot(src, snapshot.Key{})(func(*fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	h(&ctx)
	if called {
		t.Error("next handler ran despite build failure")
	}
	if ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", ctx.Response.StatusCode())
	}
}
