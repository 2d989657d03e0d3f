package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/playoff-stats/internal/domain/team"
)

type TeamRepository struct {
	db access
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{db: store}
}

func (r *TeamRepository) Ensure(_ context.Context, item team.Team) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate team: %w", err)
	}

	var (
		id      int64
		created bool
	)
	err := r.db.view(func(s *state) error {
		if idx, ok := s.teamByAbbr[item.Abbreviation]; ok {
			id = s.teams[idx].ID
			return nil
		}
		s.nextTeamID++
		item.ID = s.nextTeamID
		s.teamByAbbr[item.Abbreviation] = len(s.teams)
		s.teams = append(s.teams, item)
		id, created = item.ID, true
		return nil
	})
	return id, created, err
}
