package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// Ensure returns the id of the team with the same abbreviation, inserting
	// it first when absent. Existing rows are never updated.
	Ensure(ctx context.Context, item Team) (id int64, created bool, err error)
}
