package usecase

import (
	"context"
	"iter"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
)

// PlayoffSource reads league pages. Every method degrades to an empty or
// absent result instead of failing; the implementation logs the cause.
type PlayoffSource interface {
	PlayoffTeams(ctx context.Context, seasonYear int) []ExternalTeam
	// Roster reports found=false when the roster table is missing or the page
	// could not be fetched. The sequence can be ranged over once.
	Roster(ctx context.Context, teamURL string) (players iter.Seq[ExternalPlayer], found bool)
	TeamStats(ctx context.Context, teamURL string) ExternalTeamStats
}

type ExternalTeam struct {
	Name         string `validate:"required"`
	Abbreviation string `validate:"required,alphanum"`
	URL          string `validate:"required,url"`
}

type ExternalPlayer struct {
	Name     string
	URL      string
	Position string
}

// ExternalTeamStats maps display names to per-game lines for both tables of
// a team page. Collisions counts rows whose name was already seen in the
// same table; the later row replaced the earlier one.
type ExternalTeamStats struct {
	Regular    map[string]seasonstats.Line
	Playoff    map[string]seasonstats.Line
	Collisions int
}
