package postgres

// Position keeps the scraped text; an empty cell is stored as an empty string.
type playerTableModel struct {
	ID       int64  `db:"player_id,readonly"`
	Name     string `db:"player_name"`
	Position string `db:"position"`
	TeamID   int64  `db:"team_id"`
}
