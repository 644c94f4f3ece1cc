package projection

import "time"

// Metadata captures persistence bookkeeping shared by projections.
// Revision is the optimistic-concurrency token: a conditional update must
// present the revision that was current when the record was fetched.
type Metadata struct {
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection represents an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}
