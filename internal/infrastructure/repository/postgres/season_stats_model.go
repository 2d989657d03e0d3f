package postgres

import (
	"fmt"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
)

// seasonStatsTableModel maps both regular_season_stats and playoff_stats,
// which share one layout.
type seasonStatsTableModel struct {
	ID                   int64   `db:"stat_id,readonly"`
	PlayerID             int64   `db:"player_id"`
	SeasonYear           string  `db:"season_year"`
	AvgPoints            float64 `db:"avg_points"`
	AvgAssists           float64 `db:"avg_assists"`
	AvgOffensiveRebounds float64 `db:"avg_offensive_rebounds"`
	AvgDefensiveRebounds float64 `db:"avg_defensive_rebounds"`
	AvgSteals            float64 `db:"avg_steals"`
	AvgBlocks            float64 `db:"avg_blocks"`
}

func statsTable(contextType seasonstats.Context) (string, error) {
	switch contextType {
	case seasonstats.ContextRegular:
		return "regular_season_stats", nil
	case seasonstats.ContextPlayoff:
		return "playoff_stats", nil
	default:
		return "", fmt.Errorf("unknown stats context: %q", contextType)
	}
}

func seasonStatsModelFromRecord(item seasonstats.Record) seasonStatsTableModel {
	return seasonStatsTableModel{
		PlayerID:             item.PlayerID,
		SeasonYear:           item.Season,
		AvgPoints:            item.Line.Points,
		AvgAssists:           item.Line.Assists,
		AvgOffensiveRebounds: item.Line.OffensiveRebounds,
		AvgDefensiveRebounds: item.Line.DefensiveRebounds,
		AvgSteals:            item.Line.Steals,
		AvgBlocks:            item.Line.Blocks,
	}
}
