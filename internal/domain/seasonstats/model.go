package seasonstats

import (
	"fmt"
	"strconv"
)

// Context separates regular-season averages from playoff averages.
type Context string

const (
	ContextRegular Context = "regular"
	ContextPlayoff Context = "playoff"
)

func (c Context) Valid() bool {
	return c == ContextRegular || c == ContextPlayoff
}

// Line holds per-game averages. Missing source values are zero.
type Line struct {
	Points            float64 `json:"points"`
	Assists           float64 `json:"assists"`
	OffensiveRebounds float64 `json:"offensive_rebounds"`
	DefensiveRebounds float64 `json:"defensive_rebounds"`
	Steals            float64 `json:"steals"`
	Blocks            float64 `json:"blocks"`
}

// Record is one stored line keyed by (player, season, context).
type Record struct {
	PlayerID int64
	Season   string
	Context  Context
	Line     Line
}

func (r Record) Validate() error {
	if r.PlayerID <= 0 {
		return fmt.Errorf("stat record player id is required")
	}
	if r.Season == "" {
		return fmt.Errorf("stat record season is required")
	}
	if !r.Context.Valid() {
		return fmt.Errorf("invalid stat record context: %s", r.Context)
	}
	for name, v := range map[string]float64{
		"points":             r.Line.Points,
		"assists":            r.Line.Assists,
		"offensive rebounds": r.Line.OffensiveRebounds,
		"defensive rebounds": r.Line.DefensiveRebounds,
		"steals":             r.Line.Steals,
		"blocks":             r.Line.Blocks,
	} {
		if v < 0 {
			return fmt.Errorf("stat record %s must be >= 0", name)
		}
	}

	return nil
}

// SeasonLabel formats the label used on the site for the season ending in
// endYear, e.g. 2025 -> "2024-25".
func SeasonLabel(endYear int) string {
	start := endYear - 1
	suffix := strconv.Itoa(endYear % 100)
	if len(suffix) == 1 {
		suffix = "0" + suffix
	}
	return strconv.Itoa(start) + "-" + suffix
}
