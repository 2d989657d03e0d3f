package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/riskibarqy/playoff-stats/internal/domain/player"
	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	"github.com/riskibarqy/playoff-stats/internal/domain/team"
)

type statKey struct {
	playerID int64
	season   string
	context  seasonstats.Context
}

type playerKey struct {
	name   string
	teamID int64
}

// state is one consistent copy of every table.
type state struct {
	nextTeamID   int64
	nextPlayerID int64

	teams         []team.Team
	teamByAbbr    map[string]int
	players       []player.Player
	playerByKey   map[playerKey]int
	stats         map[statKey]seasonstats.Line
	statInsertSeq []statKey
}

func newState() *state {
	return &state{
		teamByAbbr:  make(map[string]int),
		playerByKey: make(map[playerKey]int),
		stats:       make(map[statKey]seasonstats.Line),
	}
}

func (s *state) clone() *state {
	return &state{
		nextTeamID:    s.nextTeamID,
		nextPlayerID:  s.nextPlayerID,
		teams:         slices.Clone(s.teams),
		teamByAbbr:    maps.Clone(s.teamByAbbr),
		players:       slices.Clone(s.players),
		playerByKey:   maps.Clone(s.playerByKey),
		stats:         maps.Clone(s.stats),
		statInsertSeq: slices.Clone(s.statInsertSeq),
	}
}

// access runs fn against a state. The store takes its lock; a transaction
// already holds it.
type access interface {
	view(fn func(*state) error) error
}

// Store keeps the four tables in process memory. It backs dry runs and
// tests and enforces the same unique keys as the schema.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) view(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

type txAccess struct {
	state *state
}

func (a txAccess) view(fn func(*state) error) error {
	return fn(a.state)
}

// Snapshot is a comparable dump of the committed tables, ordered by id.
type Snapshot struct {
	Teams   []team.Team
	Players []player.Player
	Stats   []seasonstats.Record
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Snapshot{
		Teams:   slices.Clone(s.state.teams),
		Players: slices.Clone(s.state.players),
		Stats:   make([]seasonstats.Record, 0, len(s.state.statInsertSeq)),
	}
	for _, key := range s.state.statInsertSeq {
		out.Stats = append(out.Stats, seasonstats.Record{
			PlayerID: key.playerID,
			Season:   key.season,
			Context:  key.context,
			Line:     s.state.stats[key],
		})
	}
	return out
}
