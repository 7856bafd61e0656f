// Package snapshot builds dataset snapshots (generated data plus the engine
// over it) and caches them by generation parameters.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"moviedash/internal/dataset"
	"moviedash/internal/metrics"
	"moviedash/internal/recommend"
)

// Key identifies a snapshot by the parameters it was generated from.
type Key struct {
	MovieCount int   `json:"movie_count"`
	UserCount  int   `json:"user_count"`
	Seed       int64 `json:"seed"`
}

func (k Key) String() string {
	return fmt.Sprintf("movies=%d users=%d seed=%d", k.MovieCount, k.UserCount, k.Seed)
}

// Snapshot is one generated dataset and the engine built over it.
// Nothing in it is modified after Build returns.
type Snapshot struct {
	ID      uuid.UUID
	Key     Key
	Movies  []dataset.Movie
	Ratings []dataset.Rating
	Engine  *recommend.Engine

	// DataDir is where the CSV files were written, empty when not persisted.
	DataDir string
	BuiltAt time.Time
}

// Store archives built snapshots.
type Store interface {
	SaveRun(ctx context.Context, s *Snapshot) error
	PruneRuns(ctx context.Context, keep int) (int64, error)
}

// Builder generates snapshots. The zero value generates in memory only.
type Builder struct {
	// DataDir, when set, receives movies.csv and ratings.csv.
	DataDir string

	// SourceDir, when set, is read with dataset.Load instead of generating.
	// The key then only names the cache entry, and DataDir is not written.
	SourceDir string

	// Store, when set, archives each snapshot. Archive failures are logged
	// and do not fail the build.
	Store Store

	// RetainRuns > 0 prunes the store to that many runs after each save.
	RetainRuns int

	Logger zerolog.Logger
}

// Build generates the catalog and ratings for key, writes them out if
// configured and constructs the engine.
func (b *Builder) Build(ctx context.Context, key Key) (*Snapshot, error) {
	s, err := b.build(ctx, key)
	if err != nil {
		metrics.SnapshotBuilt(0, err)
		return nil, err
	}
	metrics.SnapshotBuilt(len(s.Movies), nil)
	return s, nil
}

func (b *Builder) build(ctx context.Context, key Key) (*Snapshot, error) {
	start := time.Now()
	log := b.Logger.With().Stringer("key", key).Logger()

	movies, ratings, err := b.source(key)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		ID:      uuid.New(),
		Key:     key,
		Movies:  movies,
		Ratings: ratings,
		BuiltAt: start,
	}

	if b.DataDir != "" && b.SourceDir == "" {
		dir, err := dataset.Persist(movies, ratings, b.DataDir)
		if err != nil {
			return nil, err
		}
		s.DataDir = dir
	}

	s.Engine, err = recommend.New(movies, ratings, b.Logger)
	if err != nil {
		return nil, err
	}

	if b.Store != nil {
		b.archive(ctx, log, s)
	}

	log.Info().
		Str("snapshot", s.ID.String()).
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Str("data_dir", s.DataDir).
		Dur("took", time.Since(start)).
		Msg("snapshot built")
	return s, nil
}

func (b *Builder) source(key Key) ([]dataset.Movie, []dataset.Rating, error) {
	if b.SourceDir != "" {
		return dataset.Load(b.SourceDir)
	}
	movies, err := dataset.GenerateCatalog(key.MovieCount, key.Seed)
	if err != nil {
		return nil, nil, err
	}
	ratings, err := dataset.GenerateRatings(key.UserCount, key.MovieCount, key.Seed)
	if err != nil {
		return nil, nil, err
	}
	return movies, ratings, nil
}

//nolint:gocritic // zerolog.Logger is passed by value
func (b *Builder) archive(ctx context.Context, log zerolog.Logger, s *Snapshot) {
	if err := b.Store.SaveRun(ctx, s); err != nil {
		log.Warn().Err(err).Str("snapshot", s.ID.String()).Msg("failed to archive snapshot")
		return
	}
	if b.RetainRuns <= 0 {
		return
	}
	pruned, err := b.Store.PruneRuns(ctx, b.RetainRuns)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune archived runs")
		return
	}
	if pruned > 0 {
		log.Debug().Int64("pruned", pruned).Msg("pruned archived runs")
	}
}
