// Package recommend joins user ratings onto the movie catalog and answers
// read-only recommendation and statistics queries against the result.
//
// An Engine is built once from a catalog and a rating log and never changes
// afterwards, so its query methods are safe for concurrent use without
// locking. Any change to the inputs means building a new Engine.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"moviedash/internal/apperr"
	"moviedash/internal/dataset"
)

// DefaultHistogramBins is the bin count used when RatingHistogram gets bins <= 0.
const DefaultHistogramBins = 15

// Engine is an immutable snapshot of the catalog joined with rating aggregates.
type Engine struct {
	stats      []MovieStats
	byID       map[int]int // movie id -> index into stats
	genres     []string    // first-appearance order
	genreStats []GenreStat // sorted by genre name
	rated      int         // ratings that matched a catalog movie
	logger     zerolog.Logger
}

type accumulator struct {
	sum   int
	count int
}

// New validates the inputs and builds the snapshot. It fails with
// apperr.ErrInvalidInput when a movie id is non-positive or duplicated, a
// critic rating is not finite, or a user rating falls outside [1, 5].
// Ratings for movies missing from the catalog are dropped.
//
//nolint:gocritic // zerolog.Logger is passed by value
func New(movies []dataset.Movie, ratings []dataset.Rating, logger zerolog.Logger) (*Engine, error) {
	byID := make(map[int]int, len(movies))
	for i, m := range movies {
		if m.MovieID <= 0 {
			return nil, fmt.Errorf("movie %d at position %d: non-positive id: %w", m.MovieID, i, apperr.ErrInvalidInput)
		}
		if _, dup := byID[m.MovieID]; dup {
			return nil, fmt.Errorf("movie %d: duplicate id: %w", m.MovieID, apperr.ErrInvalidInput)
		}
		if math.IsNaN(m.Rating) || math.IsInf(m.Rating, 0) {
			return nil, fmt.Errorf("movie %d: rating %v: %w", m.MovieID, m.Rating, apperr.ErrInvalidInput)
		}
		byID[m.MovieID] = i
	}

	acc := make(map[int]accumulator, len(movies))
	for i, r := range ratings {
		if r.Rating < 1 || r.Rating > 5 {
			return nil, fmt.Errorf("rating %d (user %d, movie %d): score %d outside [1, 5]: %w",
				i, r.UserID, r.MovieID, r.Rating, apperr.ErrInvalidInput)
		}
		if r.UserID < 1 {
			return nil, fmt.Errorf("rating %d: user id %d: %w", i, r.UserID, apperr.ErrInvalidInput)
		}
		a := acc[r.MovieID]
		a.sum += r.Rating
		a.count++
		acc[r.MovieID] = a
	}

	e := &Engine{
		stats:  make([]MovieStats, len(movies)),
		byID:   byID,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	for i, m := range movies {
		row := MovieStats{Movie: m}
		if a, ok := acc[m.MovieID]; ok {
			row.AvgRating = float64(a.sum) / float64(a.count)
			row.NumRatings = a.count
			e.rated += a.count
		}
		e.stats[i] = row
	}
	e.genres, e.genreStats = groupByGenre(e.stats)

	e.logger.Debug().
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Int("dropped_ratings", len(ratings)-e.rated).
		Int("genres", len(e.genres)).
		Msg("built snapshot")
	return e, nil
}

func groupByGenre(stats []MovieStats) ([]string, []GenreStat) {
	type genreAcc struct {
		count     int
		ratingSum float64
		budgetSum float64
	}
	acc := make(map[string]*genreAcc)
	var order []string
	for _, s := range stats {
		g, ok := acc[s.Genre]
		if !ok {
			g = &genreAcc{}
			acc[s.Genre] = g
			order = append(order, s.Genre)
		}
		g.count++
		g.ratingSum += s.Rating
		g.budgetSum += float64(s.BudgetMillion)
	}

	out := make([]GenreStat, 0, len(order))
	for _, name := range order {
		g := acc[name]
		out = append(out, GenreStat{
			Genre:     name,
			Count:     g.count,
			AvgRating: round2(g.ratingSum / float64(g.count)),
			AvgBudget: round2(g.budgetSum / float64(g.count)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Genre < out[j].Genre })
	return order, out
}

// Len returns the catalog size.
func (e *Engine) Len() int {
	return len(e.stats)
}

// Stats returns a copy of the joined snapshot in catalog order.
func (e *Engine) Stats() []MovieStats {
	out := make([]MovieStats, len(e.stats))
	copy(out, e.stats)
	return out
}

// Movies returns the catalog in its original order.
func (e *Engine) Movies() []dataset.Movie {
	out := make([]dataset.Movie, len(e.stats))
	for i, s := range e.stats {
		out[i] = s.Movie
	}
	return out
}

// Movie returns the snapshot row for id.
func (e *Engine) Movie(id int) (MovieStats, bool) {
	i, ok := e.byID[id]
	if !ok {
		return MovieStats{}, false
	}
	return e.stats[i], true
}

// Genres returns the distinct genres present, in order of first appearance.
func (e *Engine) Genres() []string {
	out := make([]string, len(e.genres))
	copy(out, e.genres)
	return out
}

// TopRated returns the n movies with the highest critic rating, best first.
// Ties keep catalog order. n is clamped to the catalog size; n <= 0 yields
// an empty result.
func (e *Engine) TopRated(n int) []TopRatedMovie {
	top := topN(e.stats, n, func(s MovieStats) float64 { return s.Rating })
	out := make([]TopRatedMovie, len(top))
	for i, s := range top {
		out[i] = TopRatedMovie{MovieID: s.MovieID, Title: s.Title, Genre: s.Genre, Year: s.Year, Rating: s.Rating}
	}
	return out
}

// RecommendByGenre returns the n movies of genre with the highest average
// user rating. An unknown genre yields an empty result, not an error.
func (e *Engine) RecommendByGenre(genre string, n int) []Recommendation {
	candidates := e.filter(func(s MovieStats) bool { return s.Genre == genre })
	return toRecommendations(topN(candidates, n, avgRating))
}

// RecommendSimilar returns the n movies sharing movieID's genre with the
// highest average user rating, never including movieID itself. It fails
// with apperr.ErrNotFound when movieID is not in the catalog.
func (e *Engine) RecommendSimilar(movieID, n int) ([]Recommendation, error) {
	movie, ok := e.Movie(movieID)
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", movieID, apperr.ErrNotFound)
	}
	candidates := e.filter(func(s MovieStats) bool {
		return s.Genre == movie.Genre && s.MovieID != movieID
	})
	return toRecommendations(topN(candidates, n, avgRating)), nil
}

// GenreStats returns one row per genre present in the catalog, ordered by
// genre name.
func (e *Engine) GenreStats() []GenreStat {
	out := make([]GenreStat, len(e.genreStats))
	copy(out, e.genreStats)
	return out
}

// GenreCounts returns the number of movies per genre, largest first, ties by
// genre name.
func (e *Engine) GenreCounts() []GenreCount {
	out := make([]GenreCount, len(e.genreStats))
	for i, g := range e.genreStats {
		out[i] = GenreCount{Genre: g.Genre, Count: g.Count}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summary returns the catalog size, mean critic rating (one decimal), number
// of distinct genres and number of ratings joined onto the catalog.
func (e *Engine) Summary() Summary {
	s := Summary{TotalMovies: len(e.stats), Genres: len(e.genres), TotalRatings: e.rated}
	if len(e.stats) == 0 {
		return s
	}
	var sum float64
	for _, m := range e.stats {
		sum += m.Rating
	}
	s.AvgRating = round1(sum / float64(len(e.stats)))
	return s
}

// RatingHistogram splits the critic ratings into bins equal-width bins
// spanning the observed minimum and maximum. A catalog whose ratings are all
// equal gets a range of ±0.5 around that value.
func (e *Engine) RatingHistogram(bins int) []HistogramBin {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if len(e.stats) == 0 {
		return []HistogramBin{}
	}

	lo, hi := e.stats[0].Rating, e.stats[0].Rating
	for _, s := range e.stats[1:] {
		lo = math.Min(lo, s.Rating)
		hi = math.Max(hi, s.Rating)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, s := range e.stats {
		i := int((s.Rating - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

func (e *Engine) filter(keep func(MovieStats) bool) []MovieStats {
	var out []MovieStats
	for _, s := range e.stats {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func avgRating(s MovieStats) float64 { return s.AvgRating }

// topN returns the n rows with the largest key, descending, keeping input
// order among equal keys. rows is not modified.
func topN(rows []MovieStats, n int, key func(MovieStats) float64) []MovieStats {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	if n > len(rows) {
		n = len(rows)
	}
	sorted := append([]MovieStats(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	return sorted[:n]
}

func toRecommendations(rows []MovieStats) []Recommendation {
	out := make([]Recommendation, len(rows))
	for i, s := range rows {
		out[i] = Recommendation{MovieID: s.MovieID, Title: s.Title, Year: s.Year, Rating: s.Rating, AvgRating: s.AvgRating}
	}
	return out
}

// round1 and round2 round half away from zero.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
