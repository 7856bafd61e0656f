package handlers

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	"moviedash/internal/apperr"
	"moviedash/internal/dataset"
	"moviedash/internal/metrics"
	"moviedash/internal/recommend"
	"moviedash/internal/snapshot"
)

const (
	defaultTopRated = 10
	defaultRecs     = 5
)

type SnapshotInfo struct {
	ID         string    `json:"id"`
	MovieCount int       `json:"movie_count"`
	UserCount  int       `json:"user_count"`
	Seed       int64     `json:"seed"`
	BuiltAt    time.Time `json:"built_at"`
}

func snapshotInfo(s *snapshot.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:         s.ID.String(),
		MovieCount: s.Key.MovieCount,
		UserCount:  s.Key.UserCount,
		Seed:       s.Key.Seed,
		BuiltAt:    s.BuiltAt,
	}
}

type HomeView struct {
	Snapshot SnapshotInfo              `json:"snapshot"`
	Summary  recommend.Summary         `json:"summary"`
	TopRated []recommend.TopRatedMovie `json:"top_rated"`
}

func buildHome(s *snapshot.Snapshot, n int) HomeView {
	start := time.Now()
	top := s.Engine.TopRated(n)
	metrics.ObserveQuery("top_rated", start)
	return HomeView{
		Snapshot: snapshotInfo(s),
		Summary:  s.Engine.Summary(),
		TopRated: top,
	}
}

const (
	ModeByGenre = "by_genre"
	ModeSimilar = "similar"
)

// recommendParams are the untrusted query arguments of the recommend
// endpoints. N is deliberately unbounded: the engine clamps it.
type recommendParams struct {
	Mode    string `validate:"required,oneof=by_genre similar"`
	Genre   string
	MovieID *int `validate:"required_if=Mode similar"`
	N       int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func parseRecommend(ctx *fasthttp.RequestCtx) (recommendParams, error) {
	p := recommendParams{
		Mode:  string(ctx.QueryArgs().Peek("mode")),
		Genre: string(ctx.QueryArgs().Peek("genre")),
	}
	n, _, err := queryInt(ctx, "n", defaultRecs)
	if err != nil {
		return p, err
	}
	p.N = n
	if p.Mode == ModeSimilar {
		id, present, err := queryInt(ctx, "movie_id", 0)
		if err != nil {
			return p, err
		}
		if present {
			p.MovieID = &id
		}
	}
	if err := validate.Struct(&p); err != nil {
		return p, fmt.Errorf("recommend: %v: %w", err, apperr.ErrInvalidInput)
	}
	return p, nil
}

type RecommendView struct {
	Mode       string                     `json:"mode"`
	Genre      string                     `json:"genre,omitempty"`
	MovieID    int                        `json:"movie_id,omitempty"`
	MovieTitle string                     `json:"movie_title,omitempty"`
	N          int                        `json:"n"`
	Results    []recommend.Recommendation `json:"results"`
}

// runRecommend answers a validated request. Only an unknown movie id in
// similar mode fails; an unknown genre is an empty result. Failed queries are
// counted too.
func runRecommend(s *snapshot.Snapshot, p recommendParams) (RecommendView, error) {
	v := RecommendView{Mode: p.Mode, N: p.N}
	defer metrics.ObserveQuery(p.Mode, time.Now())
	switch p.Mode {
	case ModeByGenre:
		v.Genre = p.Genre
		v.Results = s.Engine.RecommendByGenre(p.Genre, p.N)
	case ModeSimilar:
		v.MovieID = *p.MovieID
		if m, ok := s.Engine.Movie(v.MovieID); ok {
			v.MovieTitle = m.Title
		}
		recs, err := s.Engine.RecommendSimilar(v.MovieID, p.N)
		if err != nil {
			return v, err
		}
		v.Results = recs
	}
	return v, nil
}

type GenreSlice struct {
	Genre   string  `json:"genre"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Width   int     `json:"-"`
}

type HistogramBar struct {
	Label  string  `json:"label"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Count  int     `json:"count"`
	Height int     `json:"-"`
}

type AnalyticsView struct {
	GenreCounts []GenreSlice          `json:"genre_counts"`
	Histogram   []HistogramBar        `json:"rating_histogram"`
	GenreStats  []recommend.GenreStat `json:"genre_stats"`
}

func buildAnalytics(s *snapshot.Snapshot) AnalyticsView {
	total := s.Engine.Len()

	counts := s.Engine.GenreCounts()
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
	}
	genres := make([]GenreSlice, len(counts))
	for i, c := range counts {
		genres[i] = GenreSlice{
			Genre:   c.Genre,
			Count:   c.Count,
			Percent: shareOf(c.Count, total),
			Width:   percentOf(c.Count, maxCount),
		}
	}

	bins := s.Engine.RatingHistogram(recommend.DefaultHistogramBins)
	maxBin := 0
	for _, b := range bins {
		maxBin = max(maxBin, b.Count)
	}
	bars := make([]HistogramBar, len(bins))
	for i, b := range bins {
		bars[i] = HistogramBar{
			Label:  binLabel(b.Lower, b.Upper),
			Lower:  b.Lower,
			Upper:  b.Upper,
			Count:  b.Count,
			Height: percentOf(b.Count, maxBin),
		}
	}

	start := time.Now()
	stats := s.Engine.GenreStats()
	metrics.ObserveQuery("genre_stats", start)

	return AnalyticsView{GenreCounts: genres, Histogram: bars, GenreStats: stats}
}

// movieOptions is the movie selector of the similar form.
func movieOptions(s *snapshot.Snapshot) []dataset.Movie {
	return s.Engine.Movies()
}
