package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/playoff-stats/internal/domain/player"
)

type PlayerRepository struct {
	db access
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{db: store}
}

func (r *PlayerRepository) Ensure(_ context.Context, item player.Player) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, fmt.Errorf("validate player: %w", err)
	}

	var (
		id      int64
		created bool
	)
	err := r.db.view(func(s *state) error {
		if !s.hasTeam(item.TeamID) {
			return fmt.Errorf("insert player name=%s: team_id=%d does not exist", item.Name, item.TeamID)
		}
		key := playerKey{name: item.Name, teamID: item.TeamID}
		if idx, ok := s.playerByKey[key]; ok {
			id = s.players[idx].ID
			return nil
		}
		s.nextPlayerID++
		item.ID = s.nextPlayerID
		s.playerByKey[key] = len(s.players)
		s.players = append(s.players, item)
		id, created = item.ID, true
		return nil
	})
	return id, created, err
}

func (s *state) hasTeam(teamID int64) bool {
	for _, item := range s.teams {
		if item.ID == teamID {
			return true
		}
	}
	return false
}

func (s *state) hasPlayer(playerID int64) bool {
	for _, item := range s.players {
		if item.ID == playerID {
			return true
		}
	}
	return false
}
