package models

import "context"

// InferenceBackend scores token ids against the tag classes. Implementations
// may add special or padding positions of their own; the returned real slice
// is parallel to scores and marks the positions that correspond, in order, to
// the submitted ids. Both slices must have equal length.
type InferenceBackend interface {
	Infer(ctx context.Context, ids []int64) (scores [][]float32, real []bool, err error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
