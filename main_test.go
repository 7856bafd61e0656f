package main

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"moviedash/internal/snapshot"
)

func testRouter(t *testing.T) (fasthttp.RequestHandler, *snapshot.Cache, *int32) {
	t.Helper()
	var builds int32
	b := &snapshot.Builder{Logger: zerolog.Nop()}
	cache := snapshot.NewCache(func(ctx context.Context, key snapshot.Key) (*snapshot.Snapshot, error) {
		atomic.AddInt32(&builds, 1)
		return b.Build(ctx, key)
	}, zerolog.Nop())
	key := snapshot.Key{MovieCount: 25, UserCount: 5, Seed: 42}
	return newRouter(cache, key, nil, zerolog.Nop()), cache, &builds
}

func do(h fasthttp.RequestHandler, method, uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	h(&ctx)
	return &ctx
}

func TestRoutes(t *testing.T) {
	h, _, _ := testRouter(t)

	tests := []struct {
		method string
		uri    string
		status int
		body   string
	}{
		{fasthttp.MethodGet, "/healthz", 200, "ok"},
		{fasthttp.MethodGet, "/", 200, "Top Rated Movies"},
		{fasthttp.MethodGet, "/recommend", 200, "Similar Movies"},
		{fasthttp.MethodGet, "/recommend?mode=by_genre&genre=Drama", 200, "Drama Movies"},
		{fasthttp.MethodGet, "/recommend?mode=similar&movie_id=1000", 404, "not in the catalog"},
		{fasthttp.MethodGet, "/analytics", 200, "Genre Statistics"},
		{fasthttp.MethodGet, "/api/v1/home", 200, `"top_rated"`},
		{fasthttp.MethodGet, "/api/v1/recommend?mode=similar&movie_id=1", 200, `"results"`},
		{fasthttp.MethodGet, "/api/v1/recommend?mode=wrong", 400, `"error"`},
		{fasthttp.MethodGet, "/api/v1/analytics", 200, `"genre_stats"`},
		{fasthttp.MethodGet, "/metrics", 200, "moviedash_snapshot_builds_total"},
		{fasthttp.MethodGet, "/api/v1/runs", 404, ""},
	}
	for _, tt := range tests {
		ctx := do(h, tt.method, tt.uri)
		if ctx.Response.StatusCode() != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.uri, ctx.Response.StatusCode(), tt.status)
			continue
		}
		if !strings.Contains(string(ctx.Response.Body()), tt.body) {
			t.Errorf("%s %s: body missing %q", tt.method, tt.uri, tt.body)
		}
		if len(ctx.Response.Header.Peek("X-Request-ID")) == 0 {
			t.Errorf("%s %s: no X-Request-ID", tt.method, tt.uri)
		}
	}
}

func TestSnapshotBuiltOnceAcrossRequests(t *testing.T) {
	h, cache, builds := testRouter(t)

	for _, uri := range []string{"/", "/analytics", "/api/v1/home"} {
		do(h, fasthttp.MethodGet, uri)
	}
	if n := atomic.LoadInt32(builds); n != 1 {
		t.Errorf("builds = %d, want 1", n)
	}

	ctx := do(h, fasthttp.MethodPost, "/dataset/invalidate")
	if ctx.Response.StatusCode() != fasthttp.StatusSeeOther {
		t.Errorf("invalidate status = %d, want 303", ctx.Response.StatusCode())
	}
	if cache.Len() != 0 {
		t.Errorf("cache still holds %d snapshots", cache.Len())
	}

	do(h, fasthttp.MethodGet, "/")
	if n := atomic.LoadInt32(builds); n != 2 {
		t.Errorf("builds after invalidate = %d, want 2", n)
	}
}
