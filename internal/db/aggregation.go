package db

import (
	"context"
	"fmt"

	"moviedash/internal/apperr"
	"moviedash/internal/recommend"
)

func genreStatRows(runID string, stats []recommend.GenreStat) []GenreStatRow {
	rows := make([]GenreStatRow, 0, len(stats))
	for _, g := range stats {
		rows = append(rows, GenreStatRow{
			RunID:     runID,
			Genre:     g.Genre,
			Count:     g.Count,
			AvgRating: g.AvgRating,
			AvgBudget: g.AvgBudget,
		})
	}
	return rows
}

// GenreStats returns the stored genre aggregates of a run, ordered by genre
// name like recommend.Engine.GenreStats. Unknown ids wrap apperr.ErrNotFound.
func (s *Store) GenreStats(ctx context.Context, runID string) ([]recommend.GenreStat, error) {
	db := s.db.WithContext(ctx)

	var runs int64
	if err := db.Model(&Run{}).Where("id = ?", runID).Count(&runs).Error; err != nil {
		return nil, err
	}
	if runs == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, apperr.ErrNotFound)
	}

	var rows []GenreStatRow
	if err := db.Where("run_id = ?", runID).Order("genre").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recommend.GenreStat, len(rows))
	for i, r := range rows {
		out[i] = recommend.GenreStat{Genre: r.Genre, Count: r.Count, AvgRating: r.AvgRating, AvgBudget: r.AvgBudget}
	}
	return out, nil
}
