package usecase

import (
	"time"

	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
)

type TeamOutcome string

const (
	TeamCommitted TeamOutcome = "committed"
	TeamSkipped   TeamOutcome = "skipped"
	TeamFailed    TeamOutcome = "failed"
)

// TeamReport counts what one team pass wrote. Counts are only non-zero for
// committed teams.
type TeamReport struct {
	Name            string      `json:"name"`
	Abbreviation    string      `json:"abbreviation"`
	Outcome         TeamOutcome `json:"outcome"`
	Error           string      `json:"error,omitempty"`
	TeamCreated     bool        `json:"team_created"`
	PlayersSeen     int         `json:"players_seen"`
	PlayersCreated  int         `json:"players_created"`
	RegularInserted int         `json:"regular_inserted"`
	RegularSkipped  int         `json:"regular_skipped"`
	PlayoffInserted int         `json:"playoff_inserted"`
	PlayoffSkipped  int         `json:"playoff_skipped"`
	Unmatched       int         `json:"unmatched"`
	UnmatchedNames  []string    `json:"unmatched_names,omitempty"`
	Collisions      int         `json:"collisions"`
}

func (r *TeamReport) countStat(contextType seasonstats.Context, inserted bool) {
	switch {
	case contextType == seasonstats.ContextRegular && inserted:
		r.RegularInserted++
	case contextType == seasonstats.ContextRegular:
		r.RegularSkipped++
	case inserted:
		r.PlayoffInserted++
	default:
		r.PlayoffSkipped++
	}
}

type RunReport struct {
	RunID          string       `json:"run_id"`
	SeasonYear     int          `json:"season_year"`
	SeasonLabel    string       `json:"season_label"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	TeamsFound     int          `json:"teams_found"`
	TeamsCommitted int          `json:"teams_committed"`
	TeamsSkipped   int          `json:"teams_skipped"`
	TeamsFailed    int          `json:"teams_failed"`
	TeamsCreated   int          `json:"teams_created"`
	PlayersCreated int          `json:"players_created"`
	StatsInserted  int          `json:"stats_inserted"`
	StatsSkipped   int          `json:"stats_skipped"`
	Unmatched      int          `json:"unmatched"`
	Collisions     int          `json:"collisions"`
	Teams          []TeamReport `json:"teams"`
}

func (r *RunReport) add(team TeamReport) {
	r.Teams = append(r.Teams, team)
	switch team.Outcome {
	case TeamSkipped:
		r.TeamsSkipped++
		return
	case TeamFailed:
		r.TeamsFailed++
		return
	}

	r.TeamsCommitted++
	if team.TeamCreated {
		r.TeamsCreated++
	}
	r.PlayersCreated += team.PlayersCreated
	r.StatsInserted += team.RegularInserted + team.PlayoffInserted
	r.StatsSkipped += team.RegularSkipped + team.PlayoffSkipped
	r.Unmatched += team.Unmatched
	r.Collisions += team.Collisions
}
