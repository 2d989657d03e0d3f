package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/playoff-stats/internal/domain/team"
	qb "github.com/riskibarqy/playoff-stats/internal/platform/querybuilder"
)

type TeamRepository struct {
	db sqlx.ExtContext
}

// NewTeamRepository accepts a pool or a transaction.
func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Ensure(ctx context.Context, item team.Team) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate team: %w", err)
	}

	id, found, err := r.lookup(ctx, item.Abbreviation)
	if err != nil || found {
		return id, false, err
	}

	insertModel := teamTableModel{
		Name:          item.Name,
		Abbreviation:  item.Abbreviation,
		IsPlayoffTeam: item.IsPlayoffTeam,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "ON CONFLICT (team_abbreviation) DO NOTHING RETURNING team_id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert team query: %w", err)
	}
	err = sqlx.GetContext(ctx, r.db, &id, query, args...)
	switch {
	case err == nil:
		return id, true, nil
	case !isNotFound(err):
		return 0, false, fmt.Errorf("insert team abbreviation=%s: %w", item.Abbreviation, err)
	}

	// another writer inserted the same abbreviation after our lookup
	id, found, err = r.lookup(ctx, item.Abbreviation)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, fmt.Errorf("team abbreviation=%s conflicted but is not visible", item.Abbreviation)
	}
	return id, false, nil
}

func (r *TeamRepository) lookup(ctx context.Context, abbreviation string) (int64, bool, error) {
	query, args, err := qb.Select("team_id").From("teams").
		Where(qb.Eq("team_abbreviation", abbreviation)).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build select team by abbreviation query: %w", err)
	}

	var id int64
	err = sqlx.GetContext(ctx, r.db, &id, query, args...)
	switch {
	case err == nil:
		return id, true, nil
	case isNotFound(err):
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("select team by abbreviation=%s: %w", abbreviation, err)
	}
}
