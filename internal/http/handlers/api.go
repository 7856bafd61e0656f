package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"moviedash/internal/apperr"
	"moviedash/internal/dataset"
	"moviedash/internal/db"
	"moviedash/internal/recommend"
)

func HomeAPI() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		n, _, err := queryInt(ctx, "n", defaultTopRated)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		jsonResponse(ctx, buildHome(s, n))
	}
}

func RecommendAPI() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		p, err := parseRecommend(ctx)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		view, err := runRecommend(s, p)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		jsonResponse(ctx, view)
	}
}

func AnalyticsAPI() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		s, ok := MustSnapshot(ctx)
		if !ok {
			return
		}
		jsonResponse(ctx, buildAnalytics(s))
	}
}

// RunArchive reads archived runs. *db.Store satisfies it.
type RunArchive interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GenreStats(ctx context.Context, runID string) ([]recommend.GenreStat, error)
	LoadRun(ctx context.Context, runID string) ([]dataset.Movie, []dataset.Rating, error)
}

// RunDetail is an archived run rebuilt into an engine.
type RunDetail struct {
	RunID      string                `json:"run_id"`
	Summary    recommend.Summary     `json:"summary"`
	GenreStats []recommend.GenreStat `json:"genre_stats"`
	Movies     []dataset.Movie       `json:"movies"`
}

func RunsAPI(store RunArchive) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		limit, _, err := queryInt(ctx, "limit", 20)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		if limit > 100 {
			limit = 100
		}
		runs, err := store.ListRuns(ctx, limit)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to list runs")
			return
		}
		jsonResponse(ctx, map[string]any{"runs": runs})
	}
}

// RunDetailAPI reloads one archived run and summarizes it.
//
//nolint:gocritic // zerolog.Logger is passed by value
func RunDetailAPI(store RunArchive, logger zerolog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := runID(ctx)
		if !ok {
			return
		}
		movies, ratings, err := store.LoadRun(ctx, id)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		e, err := recommend.New(movies, ratings, logger)
		if err != nil {
			logger.Error().Err(err).Str("run", id).Msg("archived run does not rebuild")
			errResponse(ctx, fasthttp.StatusInternalServerError, "archived run is corrupt")
			return
		}
		jsonResponse(ctx, RunDetail{
			RunID:      id,
			Summary:    e.Summary(),
			GenreStats: e.GenreStats(),
			Movies:     e.Movies(),
		})
	}
}

// RunGenreStatsAPI returns the genre statistics stored with one archived run.
func RunGenreStatsAPI(store RunArchive) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := runID(ctx)
		if !ok {
			return
		}
		stats, err := store.GenreStats(ctx, id)
		if err != nil {
			jsonError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{"run_id": id, "genre_stats": stats})
	}
}

// runID reads the {id} path parameter, answering 400 when it is not a uuid.
func runID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if _, err := uuid.Parse(id); err != nil {
		jsonError(ctx, fmt.Errorf("run id %q: %w", id, apperr.ErrInvalidInput))
		return "", false
	}
	return id, true
}
