package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	qb "github.com/riskibarqy/playoff-stats/internal/platform/querybuilder"
)

type SeasonStatsRepository struct {
	db sqlx.ExtContext
}

func NewSeasonStatsRepository(db sqlx.ExtContext) *SeasonStatsRepository {
	return &SeasonStatsRepository{db: db}
}

func (r *SeasonStatsRepository) Record(ctx context.Context, item seasonstats.Record) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("validate stat record: %w", err)
	}
	table, err := statsTable(item.Context)
	if err != nil {
		return false, err
	}

	query, args, err := qb.InsertModel(table, seasonStatsModelFromRecord(item), "ON CONFLICT (player_id, season_year) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert %s query: %w", table, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert %s player_id=%d season=%s: %w", table, item.PlayerID, item.Season, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows for %s: %w", table, err)
	}

	return affected > 0, nil
}
