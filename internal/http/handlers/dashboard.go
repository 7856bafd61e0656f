package handlers

import (
	"bytes"

	"github.com/valyala/fasthttp"

	"moviedash/internal/dataset"
	ui "moviedash/web"
)

type LayoutData struct {
	Title        string
	ActivePage   string
	PageTemplate string
	Snapshot     SnapshotInfo

	Home      *HomeView
	Analytics *AnalyticsView

	// Recommend page.
	Recommend *RecommendView
	Genres    []string
	Movies    []dataset.Movie
	Message   string
}

func renderLayout(ctx *fasthttp.RequestCtx, data LayoutData) {
	var buf bytes.Buffer
	if err := ui.Templates().ExecuteTemplate(&buf, "layout", data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("render error")
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

func HomePage() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		n, _, err := queryInt(ctx, "n", defaultTopRated)
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		home := buildHome(s, n)
		renderLayout(ctx, LayoutData{
			Title:        "Top Rated Movies",
			ActivePage:   "home",
			PageTemplate: "home",
			Snapshot:     home.Snapshot,
			Home:         &home,
		})
	}
}

// RecommendPage shows the genre and similar-movie forms and, when a mode is
// given, their results. An unknown movie renders a message with status 404.
func RecommendPage() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		data := LayoutData{
			Title:        "Get Recommendations",
			ActivePage:   "recommend",
			PageTemplate: "recommend",
			Snapshot:     snapshotInfo(s),
			Genres:       s.Engine.Genres(),
			Movies:       movieOptions(s),
		}

		if len(ctx.QueryArgs().Peek("mode")) == 0 {
			renderLayout(ctx, data)
			return
		}

		p, err := parseRecommend(ctx)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			data.Message = "Invalid request: " + err.Error()
			renderLayout(ctx, data)
			return
		}
		view, err := runRecommend(s, p)
		if err != nil {
			ctx.SetStatusCode(statusFor(err))
			if isNotFound(err) {
				data.Message = "That movie is not in the catalog."
			} else {
				data.Message = "Could not compute recommendations."
			}
			renderLayout(ctx, data)
			return
		}
		data.Recommend = &view
		renderLayout(ctx, data)
	}
}

func AnalyticsPage() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		analytics := buildAnalytics(s)
		renderLayout(ctx, LayoutData{
			Title:        "Movie Analytics",
			ActivePage:   "analytics",
			PageTemplate: "analytics",
			Snapshot:     snapshotInfo(s),
			Analytics:    &analytics,
		})
	}
}
