package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

var _ usecase.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs each team pass in its own transaction.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// no-op after a successful commit; also covers a panic in fn
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, RepositoriesFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RepositoriesFor binds every repository to one pool or transaction.
func RepositoriesFor(db sqlx.ExtContext) usecase.Repositories {
	return usecase.Repositories{
		Teams:   NewTeamRepository(db),
		Players: NewPlayerRepository(db),
		Stats:   NewSeasonStatsRepository(db),
	}
}
