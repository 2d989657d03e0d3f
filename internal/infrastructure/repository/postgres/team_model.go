package postgres

type teamTableModel struct {
	ID            int64  `db:"team_id,readonly"`
	Name          string `db:"team_name"`
	Abbreviation  string `db:"team_abbreviation"`
	IsPlayoffTeam bool   `db:"is_playoff_team"`
}
