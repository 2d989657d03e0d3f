package player

import "fmt"

// Player is a roster entry. The same person on two teams is two players.
type Player struct {
	ID       int64
	TeamID   int64
	Name     string
	Position string
}

func (p Player) Validate() error {
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
