package registry

import (
	"context"
	"strconv"
	"strings"
)

// IndexKey is one field of an index, with its sort direction
// (1 ascending, -1 descending).
type IndexKey struct {
	Field string
	Order int
}

// IndexSpec describes one index on a collection. Duplicate specs on the same
// collection are permitted; creating an index that already exists with an
// identical definition is a no-op, not an error.
type IndexSpec struct {
	Keys   []IndexKey
	Unique bool
	Sparse bool
}

// Name returns the conventional index name derived from the key fields,
// e.g. "email_1" or "status_1_job_type_1". Used for reporting and for
// matching against indexes that already exist on the collection.
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		parts = append(parts, k.Field+"_"+strconv.Itoa(k.Order))
	}
	return strings.Join(parts, "_")
}

// CollectionSchema describes one persisted collection: its name and the
// indexes it needs. A collection is claimed by at most one owner across the
// whole registry.
type CollectionSchema struct {
	Collection string
	Indexes    []IndexSpec
}

// IndexOutcome classifies the result of a single ensure-index request.
type IndexOutcome int

const (
	IndexCreated IndexOutcome = iota
	IndexExists
	IndexFailed
)

func (o IndexOutcome) String() string {
	switch o {
	case IndexCreated:
		return "created"
	case IndexExists:
		return "already exists"
	case IndexFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IndexEnsurer is the database handle the composition layer materializes
// indexes through. Implementations must treat an existing index with an
// identical definition as success (IndexExists) and must not create a
// second copy. The connection itself is owned elsewhere.
type IndexEnsurer interface {
	EnsureIndex(ctx context.Context, collection string, spec IndexSpec) (IndexOutcome, error)
}

// IndexResult is the recorded outcome of one index-creation request,
// collected into the startup report.
type IndexResult struct {
	Collection string
	Index      string
	Outcome    IndexOutcome
	Attempts   int
	Err        error // *IndexMaterializationError when Outcome is IndexFailed
}
