package registry

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const materializeAttempts = 3

// Var so tests can shrink the wait.
var materializeBackoff = 250 * time.Millisecond

// SchemaRegistry catalogues collection schemas. Most schemas arrive owned by
// a module and are only seen at CollectAll time; Register exists for
// cross-cutting collections that no single module owns. Same lifecycle as
// ModuleRegistry: populated at bootstrap, read-only afterwards.
type SchemaRegistry struct {
	mu     sync.RWMutex
	direct []*CollectionSchema
	byName map[string]*CollectionSchema
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{byName: make(map[string]*CollectionSchema)}
}

// Register inserts a schema directly, outside any module. Re-registering the
// same descriptor object is a no-op; a distinct descriptor claiming an
// already-registered collection fails with DuplicateCollectionError.
func (r *SchemaRegistry) Register(s *CollectionSchema) error {
	if s == nil || s.Collection == "" {
		return fmt.Errorf("schema descriptor missing collection name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[s.Collection]; ok {
		if existing == s {
			return nil
		}
		return &DuplicateCollectionError{Collection: s.Collection, First: "direct registration", Second: "direct registration"}
	}
	r.direct = append(r.direct, s)
	r.byName[s.Collection] = s
	return nil
}

// CollectAll flattens every module's owned schemas, in module registration
// order, followed by the directly registered schemas. A schema descriptor
// listed twice (same object) is kept once; two distinct descriptors claiming
// the same collection fail with DuplicateCollectionError. This is the
// merge-time integrity check: module-owned schemas are not validated against
// each other until composition, so the collision surfaces here rather than
// at registration.
func (r *SchemaRegistry) CollectAll(modules []*Module) ([]*CollectionSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type claim struct {
		schema *CollectionSchema
		owner  string
	}
	claims := make(map[string]claim)
	var out []*CollectionSchema

	add := func(s *CollectionSchema, owner string) error {
		if s == nil || s.Collection == "" {
			return fmt.Errorf("%s: schema descriptor missing collection name", owner)
		}
		if prev, ok := claims[s.Collection]; ok {
			if prev.schema == s {
				return nil
			}
			return &DuplicateCollectionError{Collection: s.Collection, First: prev.owner, Second: owner}
		}
		claims[s.Collection] = claim{schema: s, owner: owner}
		out = append(out, s)
		return nil
	}

	for _, m := range modules {
		owner := fmt.Sprintf("module %q", m.Name)
		for _, s := range m.Schemas {
			if err := add(s, owner); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range r.direct {
		if err := add(s, "direct registration"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Materialize issues one ensure-index request per IndexSpec against the
// database handle. Collections are dispatched concurrently; indexes within a
// collection run in order. Every request is awaited and classified before
// Materialize returns, so route mounting never races index creation.
//
// A failed request is retried up to materializeAttempts times with doubling
// backoff, then recorded as IndexFailed; it never aborts the rest of the
// batch. When ctx expires, remaining requests are recorded as failed instead
// of hanging startup. Results come back in schema order then index order.
func (r *SchemaRegistry) Materialize(ctx context.Context, db IndexEnsurer, schemas []*CollectionSchema) []IndexResult {
	total := 0
	offsets := make([]int, len(schemas))
	for i, s := range schemas {
		offsets[i] = total
		total += len(s.Indexes)
	}
	results := make([]IndexResult, total)

	var wg sync.WaitGroup
	for i, s := range schemas {
		wg.Add(1)
		go func(base int, s *CollectionSchema) {
			defer wg.Done()
			for j, spec := range s.Indexes {
				results[base+j] = ensureWithRetry(ctx, db, s.Collection, spec)
			}
		}(offsets[i], s)
	}
	wg.Wait()
	return results
}

func ensureWithRetry(ctx context.Context, db IndexEnsurer, collection string, spec IndexSpec) IndexResult {
	res := IndexResult{Collection: collection, Index: spec.Name()}

	backoff := materializeBackoff
	var lastErr error
loop:
	for attempt := 1; attempt <= materializeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		res.Attempts = attempt

		outcome, err := db.EnsureIndex(ctx, collection, spec)
		if err == nil {
			res.Outcome = outcome
			return res
		}
		lastErr = err

		if attempt == materializeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			break loop
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	res.Outcome = IndexFailed
	res.Err = &IndexMaterializationError{Collection: collection, Index: res.Index, Err: lastErr}
	return res
}
