package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/matchbench/pkg/bench"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

func testRun(id string, start time.Time) *bench.Run {
	return &bench.Run{
		ID:         id,
		Sweep:      bench.Sweep{Left: 10, Right: 10, From: 5, To: 15, Step: 5, Trials: 1, Seed: 3},
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Complete:   true,
		Records: []bench.Record{
			{N: 100, M: 5, Time: 1200, Size: 5},
			{N: 100, M: 10, Time: 3400, Size: 8},
		},
	}
}

func TestMemoryStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	run := testRun("a", time.Now())
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	// Stored copies are isolated from the caller.
	run.Records[0].Size = 99
	got.Records[1].Size = 77
	again, err := s.GetRun(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Records[0].Size)
	assert.Equal(t, 8, again.Records[1].Size)
}

func TestMemoryStore_NotFound(t *testing.T) {
	_, err := NewMemoryStore().GetRun(context.Background(), "missing")
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.SaveRun(context.Background(), &bench.Run{}))
	assert.Error(t, s.SaveRun(context.Background(), nil))
}

func TestMemoryStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx, testRun("old", base)))
	require.NoError(t, s.SaveRun(ctx, testRun("new", base.Add(time.Hour))))
	require.NoError(t, s.SaveRun(ctx, testRun("mid-b", base.Add(time.Minute))))
	require.NoError(t, s.SaveRun(ctx, testRun("mid-a", base.Add(time.Minute))))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
		assert.Nil(t, r.Records, "ListRuns should omit records")
	}
	assert.Equal(t, []string{"new", "mid-a", "mid-b", "old"}, ids)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("run-%d", i)
			_ = s.SaveRun(ctx, testRun(id, time.Now()))
			_, _ = s.GetRun(ctx, id)
			_, _ = s.ListRuns(ctx, 5)
		}()
	}
	wg.Wait()

	runs, err := s.ListRuns(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, Options{Backend: "postgres"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: BackendMongo, MongoURI: "localhost:27017", Database: "x"})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}
