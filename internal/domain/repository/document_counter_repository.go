package repository

import "context"

// DocumentCounterRepository hands out per-day document sequences
type DocumentCounterRepository interface {
	// Next reserves and returns the next sequence for day, starting at 1
	Next(ctx context.Context, day string) (int, error)
	// Current returns the last reserved sequence for day, 0 if none
	Current(ctx context.Context, day string) (int, error)
}
