package seasonstats

import "context"

// Repository describes stat persistence needs from use cases.
type Repository interface {
	// Record inserts the record unless its key already exists. The first
	// stored values always win.
	Record(ctx context.Context, item Record) (inserted bool, err error)
}
