package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-analytics/internal/domain"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, time.Minute), mr
}

type countingSource struct {
	entries []domain.TimeEntry
	err     error
	calls   int
}

func (s *countingSource) EntriesForRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
	s.calls++
	return s.entries, s.err
}

func (s *countingSource) Employees(ctx context.Context) ([]domain.Employee, error) { return nil, nil }
func (s *countingSource) Projects(ctx context.Context) ([]domain.Project, error)   { return nil, nil }

var day = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func TestCache_RoundTripAndTTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	_, gen, ok, err := c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	start := day.Add(7 * time.Hour)
	in := []domain.TimeEntry{{ID: "t1", EmployeeID: "emp_001", ProjectCode: "25-2126", Date: day, Start: &start, Hours: 8, Status: domain.StatusApproved}}
	require.NoError(t, c.SetEntries(ctx, gen, day, day, in))
	assert.True(t, mr.Exists("labor:entries:0:2025-11-03:2025-11-03"))

	out, _, ok, err := c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, 8.0, out[0].Hours)
	assert.True(t, start.Equal(*out[0].Start))

	mr.FastForward(2 * time.Minute)
	_, _, ok, err = c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_EmptyWindowIsAHit(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEntries(ctx, 0, day, day, nil))
	out, _, ok, err := c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestCachedSource_ReadThrough(t *testing.T) {
	c, _ := setupCache(t)
	src := &countingSource{entries: []domain.TimeEntry{{ID: "t1", EmployeeID: "emp_001", Hours: 4}}}
	cs := NewCachedSource(src, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cs.EntriesForRange(ctx, day, day)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 1, src.calls)
}

func TestCachedSource_CacheDownFallsThrough(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()
	src := &countingSource{entries: []domain.TimeEntry{{ID: "t1", EmployeeID: "emp_001", Hours: 4}}}
	cs := NewCachedSource(src, c, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := cs.EntriesForRange(context.Background(), day, day)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCachedSource_SourceErrorNotCached(t *testing.T) {
	c, mr := setupCache(t)
	src := &countingSource{err: errors.New("connection refused")}
	cs := NewCachedSource(src, c, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := cs.EntriesForRange(context.Background(), day, day)
	require.Error(t, err)
	assert.False(t, mr.Exists("labor:entries:0:2025-11-03:2025-11-03"))
}

func TestCache_InvalidateRetiresWindows(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEntries(ctx, 0, day, day, []domain.TimeEntry{{ID: "t1", EmployeeID: "emp_001", Hours: 4}}))
	require.NoError(t, c.Invalidate(ctx))

	got, gen, ok, err := c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)
	assert.Equal(t, "1", mustGet(t, mr, "labor:entries:gen"))
}

func TestCachedSource_SyncAfterEmptyReadIsVisible(t *testing.T) {
	c, _ := setupCache(t)
	src := &countingSource{}
	cs := NewCachedSource(src, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	got, err := cs.EntriesForRange(ctx, day, day)
	require.NoError(t, err)
	assert.Empty(t, got)

	// The mirror is filled by a sync, which retires cached windows.
	src.entries = []domain.TimeEntry{{ID: "t1", EmployeeID: "emp_001", Hours: 8}}
	require.NoError(t, c.Invalidate(ctx))

	got, err = cs.EntriesForRange(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, src.calls)
}

func TestCache_StaleGenerationWriteIsUnreachable(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	_, gen, ok, err := c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	require.False(t, ok)

	// A sync lands between the miss and the write-back.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.SetEntries(ctx, gen, day, day, nil))

	_, _, ok, err = c.GetEntries(ctx, day, day)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("labor:entries:1:2025-11-03:2025-11-03"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
