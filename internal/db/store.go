package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"moviedash/internal/apperr"
	"moviedash/internal/dataset"
	"moviedash/internal/snapshot"
)

const batchSize = 500

// Store archives snapshots in the database.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection from Connect.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ snapshot.Store = (*Store)(nil)

// SaveRun writes the snapshot's run, movies, ratings and genre aggregates in
// one transaction.
func (s *Store) SaveRun(ctx context.Context, snap *snapshot.Snapshot) error {
	runID := snap.ID.String()
	run := Run{
		ID:         runID,
		CreatedAt:  snap.BuiltAt,
		MovieCount: snap.Key.MovieCount,
		UserCount:  snap.Key.UserCount,
		Seed:       snap.Key.Seed,
		DataDir:    snap.DataDir,
		Params: datatypes.JSONMap{
			"movie_count": snap.Key.MovieCount,
			"user_count":  snap.Key.UserCount,
			"seed":        snap.Key.Seed,
		},
	}

	movies := make([]MovieRow, 0, len(snap.Movies))
	for _, m := range snap.Movies {
		movies = append(movies, MovieRow{
			RunID:          runID,
			MovieID:        m.MovieID,
			Title:          m.Title,
			Genre:          m.Genre,
			Year:           m.Year,
			DurationMin:    m.DurationMin,
			Rating:         m.Rating,
			Votes:          m.Votes,
			BudgetMillion:  m.BudgetMillion,
			RevenueMillion: m.RevenueMillion,
		})
	}

	ratings := make([]RatingRow, 0, len(snap.Ratings))
	for _, r := range snap.Ratings {
		ratings = append(ratings, RatingRow{RunID: runID, UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating})
	}

	var genres []GenreStatRow
	if snap.Engine != nil {
		genres = genreStatRows(runID, snap.Engine.GenreStats())
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(movies) > 0 {
			if err := tx.CreateInBatches(&movies, batchSize).Error; err != nil {
				return err
			}
		}
		if len(ratings) > 0 {
			if err := tx.CreateInBatches(&ratings, batchSize).Error; err != nil {
				return err
			}
		}
		if len(genres) > 0 {
			if err := tx.Create(&genres).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save run %s: %v: %w", runID, err, apperr.ErrIO)
	}
	return nil
}

// LoadRun returns the catalog and ratings of an archived run in their
// original order. Unknown ids wrap apperr.ErrNotFound.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]dataset.Movie, []dataset.Rating, error) {
	db := s.db.WithContext(ctx)

	var run Run
	if err := db.Where("id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("run %s: %w", runID, apperr.ErrNotFound)
		}
		return nil, nil, err
	}

	var movieRows []MovieRow
	if err := db.Where("run_id = ?", runID).Order("movie_id").Find(&movieRows).Error; err != nil {
		return nil, nil, err
	}
	movies := make([]dataset.Movie, len(movieRows))
	for i, m := range movieRows {
		movies[i] = dataset.Movie{
			MovieID:        m.MovieID,
			Title:          m.Title,
			Genre:          m.Genre,
			Year:           m.Year,
			DurationMin:    m.DurationMin,
			Rating:         m.Rating,
			Votes:          m.Votes,
			BudgetMillion:  m.BudgetMillion,
			RevenueMillion: m.RevenueMillion,
		}
	}

	var ratingRows []RatingRow
	if err := db.Where("run_id = ?", runID).Order("id").Find(&ratingRows).Error; err != nil {
		return nil, nil, err
	}
	ratings := make([]dataset.Rating, len(ratingRows))
	for i, r := range ratingRows {
		ratings[i] = dataset.Rating{UserID: r.UserID, MovieID: r.MovieID, Rating: r.Rating}
	}
	return movies, ratings, nil
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
