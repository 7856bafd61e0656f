package db

import (
	"context"

	"gorm.io/gorm"
)

// PruneRuns deletes every run except the keep newest, together with their
// movies, ratings and genre aggregates. It returns the number of runs
// removed. keep <= 0 removes nothing.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	var ids []string
	if err := s.db.WithContext(ctx).Model(&Run{}).
		Order("created_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) <= keep {
		return 0, nil
	}
	stale := ids[keep:]

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&MovieRow{}, &RatingRow{}, &GenreStatRow{}} {
			if err := tx.Where("run_id IN ?", stale).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id IN ?", stale).Delete(&Run{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
