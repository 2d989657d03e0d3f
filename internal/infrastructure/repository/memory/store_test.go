package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/playoff-stats/internal/domain/player"
	"github.com/riskibarqy/playoff-stats/internal/domain/seasonstats"
	"github.com/riskibarqy/playoff-stats/internal/domain/team"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

func TestTeamRepository_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewTeamRepository(store)

	id, created, err := repo.Ensure(ctx, team.Team{Name: "Boston Celtics", Abbreviation: "BOS", IsPlayoffTeam: true})
	require.NoError(t, err)
	require.True(t, created)

	// a hit never updates the stored row
	again, created, err := repo.Ensure(ctx, team.Team{Name: "Celtics", Abbreviation: "BOS"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, id, again)

	require.Equal(t, []team.Team{{ID: id, Name: "Boston Celtics", Abbreviation: "BOS", IsPlayoffTeam: true}}, store.Snapshot().Teams)
}

func TestTeamRepository_EnsureRejectsInvalid(t *testing.T) {
	_, _, err := NewTeamRepository(NewStore()).Ensure(context.Background(), team.Team{Name: "No Abbreviation"})
	require.Error(t, err)
}

func TestPlayerRepository_IdentityIsNameAndTeam(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	bos, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "Boston Celtics", Abbreviation: "BOS"})
	require.NoError(t, err)
	nyk, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "New York Knicks", Abbreviation: "NYK"})
	require.NoError(t, err)

	first, created, err := repos.Players.Ensure(ctx, player.Player{TeamID: bos, Name: "Jrue Holiday", Position: "G"})
	require.NoError(t, err)
	require.True(t, created)

	same, created, err := repos.Players.Ensure(ctx, player.Player{TeamID: bos, Name: "Jrue Holiday", Position: "F"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first, same)

	other, created, err := repos.Players.Ensure(ctx, player.Player{TeamID: nyk, Name: "Jrue Holiday", Position: "G"})
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, first, other)

	players := store.Snapshot().Players
	require.Len(t, players, 2)
	require.Equal(t, player.Player{ID: first, TeamID: bos, Name: "Jrue Holiday", Position: "G"}, players[0])
}

func TestPlayerRepository_UnknownTeam(t *testing.T) {
	_, _, err := NewPlayerRepository(NewStore()).Ensure(context.Background(), player.Player{TeamID: 9, Name: "Ghost"})
	require.Error(t, err)
}

func TestSeasonStatsRepository_FirstValuesWin(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	teamID, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "Boston Celtics", Abbreviation: "BOS"})
	require.NoError(t, err)
	playerID, _, err := repos.Players.Ensure(ctx, player.Player{TeamID: teamID, Name: "Jayson Tatum", Position: "F"})
	require.NoError(t, err)

	record := seasonstats.Record{
		PlayerID: playerID,
		Season:   "2024-25",
		Context:  seasonstats.ContextPlayoff,
		Line:     seasonstats.Line{Points: 26.9},
	}
	inserted, err := repos.Stats.Record(ctx, record)
	require.NoError(t, err)
	require.True(t, inserted)

	changed := record
	changed.Line.Points = 40
	inserted, err = repos.Stats.Record(ctx, changed)
	require.NoError(t, err)
	require.False(t, inserted)

	// the regular-season table is a separate key space
	regular := record
	regular.Context = seasonstats.ContextRegular
	inserted, err = repos.Stats.Record(ctx, regular)
	require.NoError(t, err)
	require.True(t, inserted)

	if diff := cmp.Diff([]seasonstats.Record{record, regular}, store.Snapshot().Stats); diff != "" {
		t.Fatalf("stored records mismatch (-want +got):\n%s", diff)
	}
}

func TestSeasonStatsRepository_UnknownPlayer(t *testing.T) {
	_, err := NewSeasonStatsRepository(NewStore()).Record(context.Background(), seasonstats.Record{
		PlayerID: 1,
		Season:   "2024-25",
		Context:  seasonstats.ContextRegular,
	})
	require.Error(t, err)
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWork(store)

	err := uow.Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		_, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "Boston Celtics", Abbreviation: "BOS"})
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		if _, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "New York Knicks", Abbreviation: "NYK"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	snap := store.Snapshot()
	require.Len(t, snap.Teams, 1)
	require.Equal(t, "BOS", snap.Teams[0].Abbreviation)

	// ids handed out inside a rolled back transaction are reused
	err = uow.Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		id, _, err := repos.Teams.Ensure(ctx, team.Team{Name: "New York Knicks", Abbreviation: "NYK"})
		require.Equal(t, int64(2), id)
		return err
	})
	require.NoError(t, err)
}

func TestUnitOfWork_PanicLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWork(store)

	require.Panics(t, func() {
		_ = uow.Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
			_, _, _ = repos.Teams.Ensure(ctx, team.Team{Name: "Boston Celtics", Abbreviation: "BOS"})
			panic("parser bug")
		})
	})
	require.Empty(t, store.Snapshot().Teams)

	// the lock was released by the deferred unlock
	require.NoError(t, uow.Do(ctx, func(context.Context, usecase.Repositories) error { return nil }))
}

func TestUnitOfWork_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewUnitOfWork(NewStore()).Do(ctx, func(context.Context, usecase.Repositories) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
