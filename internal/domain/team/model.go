package team

import "fmt"

// Team is a franchise as listed on the league standings page.
type Team struct {
	ID            int64
	Name          string
	Abbreviation  string
	IsPlayoffTeam bool
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Abbreviation == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}
