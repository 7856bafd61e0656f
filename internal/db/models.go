package db

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one archived snapshot build. Its movies, ratings and genre
// aggregates reference it by RunID.
type Run struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	MovieCount int   `gorm:"not null" json:"movie_count"`
	UserCount  int   `gorm:"not null" json:"user_count"`
	Seed       int64 `gorm:"not null" json:"seed"`

	// DataDir is where the CSV copy was written, empty if none.
	DataDir string `gorm:"size:1024" json:"data_dir,omitempty"`

	// Params records the generation parameters as sent to the generator,
	// so later schema changes to the columns above stay readable.
	Params datatypes.JSONMap `gorm:"type:json" json:"params"`
}

func (Run) TableName() string { return "generation_runs" }

// MovieRow is a catalog movie within one run.
type MovieRow struct {
	ID uint `gorm:"primaryKey"`

	RunID   string `gorm:"uniqueIndex:idx_run_movie,priority:1;size:36;not null"`
	MovieID int    `gorm:"uniqueIndex:idx_run_movie,priority:2;not null"`

	Title          string  `gorm:"size:255;not null"`
	Genre          string  `gorm:"size:32;index;not null"`
	Year           int     `gorm:"not null"`
	DurationMin    int     `gorm:"not null"`
	Rating         float64 `gorm:"not null"`
	Votes          int     `gorm:"not null"`
	BudgetMillion  int     `gorm:"not null"`
	RevenueMillion int     `gorm:"not null"`
}

func (MovieRow) TableName() string { return "movies" }

// RatingRow is one user score within one run.
type RatingRow struct {
	ID uint `gorm:"primaryKey"`

	RunID   string `gorm:"index;size:36;not null"`
	UserID  int    `gorm:"not null"`
	MovieID int    `gorm:"not null"`
	Rating  int    `gorm:"not null"`
}

func (RatingRow) TableName() string { return "ratings" }

// GenreStatRow stores the per-genre aggregate of a run, so archived runs can
// be compared without rebuilding an engine.
type GenreStatRow struct {
	ID uint `gorm:"primaryKey"`

	RunID string `gorm:"uniqueIndex:idx_run_genre,priority:1;size:36;not null"`
	Genre string `gorm:"uniqueIndex:idx_run_genre,priority:2;size:32;not null"`

	Count     int     `gorm:"not null"`
	AvgRating float64 `gorm:"not null"`
	AvgBudget float64 `gorm:"not null"`
}

func (GenreStatRow) TableName() string { return "genre_stats" }
