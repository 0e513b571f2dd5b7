package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnsurer remembers which indexes exist so a second Materialize pass
// reports them as already present, the way the real database handle does.
type fakeEnsurer struct {
	mu       sync.Mutex
	existing map[string]bool
	failWith map[string]error // index key -> forced error
	failures map[string]int   // remaining forced failures per index key
	calls    int
}

func newFakeEnsurer() *fakeEnsurer {
	return &fakeEnsurer{
		existing: make(map[string]bool),
		failWith: make(map[string]error),
		failures: make(map[string]int),
	}
}

func key(collection string, spec IndexSpec) string { return collection + "." + spec.Name() }

func (f *fakeEnsurer) EnsureIndex(ctx context.Context, collection string, spec IndexSpec) (IndexOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	k := key(collection, spec)
	if n, ok := f.failures[k]; ok && n != 0 {
		if n > 0 {
			f.failures[k] = n - 1
		}
		return IndexFailed, f.failWith[k]
	}
	if f.existing[k] {
		return IndexExists, nil
	}
	f.existing[k] = true
	return IndexCreated, nil
}

// failAlways forces every attempt for the given index to fail.
func (f *fakeEnsurer) failAlways(collection string, spec IndexSpec, err error) {
	f.failures[key(collection, spec)] = -1
	f.failWith[key(collection, spec)] = err
}

// failTimes forces the first n attempts for the given index to fail.
func (f *fakeEnsurer) failTimes(n int, collection string, spec IndexSpec, err error) {
	f.failures[key(collection, spec)] = n
	f.failWith[key(collection, spec)] = err
}

func shortBackoff(t *testing.T) {
	t.Helper()
	old := materializeBackoff
	materializeBackoff = time.Millisecond
	t.Cleanup(func() { materializeBackoff = old })
}

func testSchemas() []*CollectionSchema {
	return []*CollectionSchema{
		{Collection: "admins", Indexes: []IndexSpec{
			{Keys: []IndexKey{{Field: "email", Order: 1}}, Unique: true},
			{Keys: []IndexKey{{Field: "is_active", Order: 1}}},
		}},
		{Collection: "job_descriptions", Indexes: []IndexSpec{
			{Keys: []IndexKey{{Field: "recruiter_id", Order: 1}}},
			{Keys: []IndexKey{{Field: "status", Order: 1}, {Field: "job_type", Order: 1}}},
		}},
	}
}

func TestMaterialize_CreatesAllIndexes(t *testing.T) {
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()

	results := reg.Materialize(context.Background(), db, testSchemas())
	require.Len(t, results, 4)
	for _, res := range results {
		assert.Equal(t, IndexCreated, res.Outcome, "index %s on %s", res.Index, res.Collection)
		assert.Equal(t, 1, res.Attempts)
		assert.NoError(t, res.Err)
	}
}

func TestMaterialize_SecondPassReportsAlreadyExists(t *testing.T) {
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()
	schemas := testSchemas()

	first := reg.Materialize(context.Background(), db, schemas)
	for _, res := range first {
		require.Equal(t, IndexCreated, res.Outcome)
	}

	second := reg.Materialize(context.Background(), db, schemas)
	require.Len(t, second, 4)
	for _, res := range second {
		assert.Equal(t, IndexExists, res.Outcome)
		assert.NoError(t, res.Err)
	}
}

func TestMaterialize_ResultOrderIsDeterministic(t *testing.T) {
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()
	schemas := testSchemas()

	results := reg.Materialize(context.Background(), db, schemas)
	want := []string{
		"admins.email_1",
		"admins.is_active_1",
		"job_descriptions.recruiter_id_1",
		"job_descriptions.status_1_job_type_1",
	}
	got := make([]string, len(results))
	for i, res := range results {
		got[i] = res.Collection + "." + res.Index
	}
	assert.Equal(t, want, got)
}

func TestMaterialize_OneFailureDoesNotAbortTheRest(t *testing.T) {
	shortBackoff(t)
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()
	schemas := testSchemas()

	boom := errors.New("index options conflict")
	db.failAlways("admins", schemas[0].Indexes[0], boom)

	results := reg.Materialize(context.Background(), db, schemas)
	require.Len(t, results, 4)

	var failed []IndexResult
	for _, res := range results {
		if res.Outcome == IndexFailed {
			failed = append(failed, res)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "admins", failed[0].Collection)
	assert.Equal(t, "email_1", failed[0].Index)
	assert.Equal(t, materializeAttempts, failed[0].Attempts)

	var matErr *IndexMaterializationError
	require.ErrorAs(t, failed[0].Err, &matErr)
	assert.ErrorIs(t, failed[0].Err, boom)
}

func TestMaterialize_TransientFailureIsRetried(t *testing.T) {
	shortBackoff(t)
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()
	schemas := testSchemas()

	db.failTimes(1, "admins", schemas[0].Indexes[0], errors.New("connection reset"))

	results := reg.Materialize(context.Background(), db, schemas)
	require.Equal(t, IndexCreated, results[0].Outcome)
	assert.Equal(t, 2, results[0].Attempts)
}

func TestMaterialize_ExpiredContextReportsFailures(t *testing.T) {
	reg := NewSchemaRegistry()
	db := newFakeEnsurer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := reg.Materialize(ctx, db, testSchemas())
	require.Len(t, results, 4)
	for _, res := range results {
		assert.Equal(t, IndexFailed, res.Outcome)
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.Zero(t, db.calls, "no requests should be issued once the deadline has passed")
}
