package ctx

import (
	"github.com/valyala/fasthttp"

	"moviedash/internal/snapshot"
)

const (
	RequestIDKey = "requestID"
	SnapshotKey  = "snapshot"
)

func SetRequestID(ctx *fasthttp.RequestCtx, id string) {
	ctx.SetUserValue(RequestIDKey, id)
}

func RequestIDFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(RequestIDKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func SetSnapshot(ctx *fasthttp.RequestCtx, s *snapshot.Snapshot) {
	ctx.SetUserValue(SnapshotKey, s)
}

func SnapshotFromCtx(ctx *fasthttp.RequestCtx) (*snapshot.Snapshot, bool) {
	v := ctx.UserValue(SnapshotKey)
	if v == nil {
		return nil, false
	}
	s, ok := v.(*snapshot.Snapshot)
	return s, ok && s != nil
}
