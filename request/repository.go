package request

import (
	"context"
	"time"
)

// Spec describes a record query without executing it. The store decides
// how to translate each filter; a zero Limit means unlimited.
type Spec struct {
	Bundle        string
	PublishedOnly bool
	ChangedBefore time.Time
	UUID          string
	CategoryID    string
	NIDs          []int64
	// Search is matched case-insensitively as a substring against the
	// stable identifier, body, and title, OR-combined.
	Search    string
	Limit     int
	SortField string
	SortDesc  bool
}

// RecordStore executes query specs and creates records. Single-record
// atomicity on Create is the store's responsibility.
type RecordStore interface {
	Execute(ctx context.Context, spec Spec) ([]Record, error)
	Create(ctx context.Context, values Values) (Record, error)
	// SupportsStableIDs reports whether records carry a stable public
	// identifier; when false, callers fall back to the internal nid.
	SupportsStableIDs() bool
}
