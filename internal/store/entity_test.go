package store

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newTestRecords(s *Store) *Entity[testRecord] {
	return NewEntity[testRecord](s, "rec:").
		WithIndexTransform("email",
			func(r *testRecord) []string { return []string{strings.ToLower(r.Email)} },
			strings.ToLower,
		)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Email: "a@example.com"}))

	err := records.Create(ctx, "1", &testRecord{ID: "1", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_Create_IndexConflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Email: "a@example.com"}))

	err := records.Create(ctx, "2", &testRecord{ID: "2", Email: "A@Example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists, "index values are normalized before comparison")
}

func TestEntity_GetByIndex_Transform(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Name: "Ada", Email: "Ada@Example.com"}))

	got, err := records.GetByIndex(ctx, "email", "ada@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestEntity_Mutate_RepointsIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Email: "old@example.com"}))

	err := records.Mutate(ctx, "1", func(r *testRecord) error {
		r.Email = "new@example.com"
		return nil
	})
	require.NoError(t, err)

	got, err := records.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = records.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Mutate_ConcurrentWritesDoNotLoseUpdates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Email: "a@example.com"}))

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- records.Mutate(ctx, "1", func(r *testRecord) error {
				r.Name += "x"
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)

	applied := 0
	for err := range errs {
		if err == nil {
			applied++
			continue
		}
		// Heavy contention can still abort after the retry, but it must
		// surface as a conflict the caller can retry, never a lost write.
		assert.ErrorIs(t, err, ErrTxnConflict)
	}

	got, err := records.Get(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, got.Name, applied)
}

func TestEntity_Mutate_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	records := newTestRecords(s)
	err := records.Mutate(context.Background(), "missing", func(*testRecord) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_List_SkipsIndexKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	records := newTestRecords(s)

	require.NoError(t, records.Create(ctx, "1", &testRecord{ID: "1", Email: "a@example.com"}))
	require.NoError(t, records.Create(ctx, "2", &testRecord{ID: "2", Email: "b@example.com"}))

	var count int
	for rec, err := range records.List(ctx) {
		require.NoError(t, err)
		require.NotNil(t, rec)
		count++
	}
	assert.Equal(t, 2, count)
}
