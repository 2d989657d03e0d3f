package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
)

type SeasonStatsRepository struct {
	db access
}

func NewSeasonStatsRepository(store *Store) *SeasonStatsRepository {
	return &SeasonStatsRepository{db: store}
}

func (r *SeasonStatsRepository) Record(_ context.Context, item seasonstats.Record) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("validate stat record: %w", err)
	}

	var inserted bool
	err := r.db.view(func(s *state) error {
		if !s.hasPlayer(item.PlayerID) {
			return fmt.Errorf("insert %s stats: player_id=%d does not exist", item.Context, item.PlayerID)
		}
		key := statKey{playerID: item.PlayerID, season: item.Season, context: item.Context}
		if _, exists := s.stats[key]; exists {
			return nil
		}
		s.stats[key] = item.Line
		s.statInsertSeq = append(s.statInsertSeq, key)
		inserted = true
		return nil
	})
	return inserted, err
}
