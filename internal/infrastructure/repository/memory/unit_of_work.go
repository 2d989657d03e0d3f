package memory

import (
	"context"

	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

var _ usecase.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork gives fn a private copy of the store and publishes it only
// when fn returns nil. Transactions are serialized.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := u.store.state.clone()
	tx := txAccess{state: working}
	repos := usecase.Repositories{
		Teams:   &TeamRepository{db: tx},
		Players: &PlayerRepository{db: tx},
		Stats:   &SeasonStatsRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	u.store.state = working
	return nil
}

// Repositories returns repositories that read and write the committed
// tables directly.
func (s *Store) Repositories() usecase.Repositories {
	return usecase.Repositories{
		Teams:   NewTeamRepository(s),
		Players: NewPlayerRepository(s),
		Stats:   NewSeasonStatsRepository(s),
	}
}
