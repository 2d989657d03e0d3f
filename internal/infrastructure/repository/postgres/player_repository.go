package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/playoff-stats/internal/domain/player"
	qb "github.com/riskibarqy/playoff-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db sqlx.ExtContext
}

func NewPlayerRepository(db sqlx.ExtContext) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Ensure(ctx context.Context, item player.Player) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate player: %w", err)
	}

	id, found, err := r.lookup(ctx, item.Name, item.TeamID)
	if err != nil || found {
		return id, false, err
	}

	insertModel := playerTableModel{
		Name:     item.Name,
		Position: item.Position,
		TeamID:   item.TeamID,
	}
	query, args, err := qb.InsertModel("players", insertModel, "ON CONFLICT (player_name, team_id) DO NOTHING RETURNING player_id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert player query: %w", err)
	}
	err = sqlx.GetContext(ctx, r.db, &id, query, args...)
	switch {
	case err == nil:
		return id, true, nil
	case !isNotFound(err):
		return 0, false, fmt.Errorf("insert player name=%s team_id=%d: %w", item.Name, item.TeamID, err)
	}

	id, found, err = r.lookup(ctx, item.Name, item.TeamID)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, fmt.Errorf("player name=%s team_id=%d conflicted but is not visible", item.Name, item.TeamID)
	}
	return id, false, nil
}

func (r *PlayerRepository) lookup(ctx context.Context, name string, teamID int64) (int64, bool, error) {
	query, args, err := qb.Select("player_id").From("players").
		Where(
			qb.Eq("player_name", name),
			qb.Eq("team_id", teamID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build select player query: %w", err)
	}

	var id int64
	err = sqlx.GetContext(ctx, r.db, &id, query, args...)
	switch {
	case err == nil:
		return id, true, nil
	case isNotFound(err):
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("select player name=%s team_id=%d: %w", name, teamID, err)
	}
}
