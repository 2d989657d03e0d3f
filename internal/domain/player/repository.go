package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// Ensure looks a player up by (name, team id) and inserts on miss.
	Ensure(ctx context.Context, item Player) (id int64, created bool, err error)
}
