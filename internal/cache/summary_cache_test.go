package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/article-cms-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewSummaryCache(rdb, time.Minute)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func samplePage() []models.ArticleSummary {
	return []models.ArticleSummary{
		{ID: "a-1", Title: "First", Slug: "first_00000001", Lang: models.LangRU, Views: 10},
		{ID: "a-2", Title: "Second", Slug: "second_00000002", Lang: models.LangKZ, Views: 3},
	}
}

func TestSummaryCache_MissThenHit(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, gen, ok, err := c.GetSummaries(ctx, 50, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetSummaries(ctx, gen, 50, 0, samplePage()))

	got, _, ok, err := c.GetSummaries(ctx, 50, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, samplePage(), got)

	_, _, ok, err = c.GetSummaries(ctx, 50, 50)
	require.NoError(t, err)
	assert.False(t, ok, "different offset is a separate page")
}

func TestSummaryCache_Invalidate(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetSummaries(ctx, 0, 50, 0, samplePage()))
	require.NoError(t, c.Invalidate(ctx))

	_, gen, ok, err := c.GetSummaries(ctx, 50, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)

	stored, err := mr.Get(generationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", stored)
}

func TestSummaryCache_FillRacingInvalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	// a reader misses and loads rows from the database
	_, gen, ok, err := c.GetSummaries(ctx, 50, 0)
	require.NoError(t, err)
	require.False(t, ok)

	// a write commits and invalidates before the reader stores its page
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.SetSummaries(ctx, gen, 50, 0, samplePage()))

	_, _, ok, err = c.GetSummaries(ctx, 50, 0)
	require.NoError(t, err)
	assert.False(t, ok, "page loaded before the write must not be served")
}

func TestSummaryCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetSummaries(ctx, 0, 10, 0, samplePage()))
	assert.Equal(t, time.Minute, mr.TTL(pageKey(0, 10, 0)))

	mr.FastForward(2 * time.Minute)

	_, _, ok, err := c.GetSummaries(ctx, 10, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummaryCache_CorruptEntry(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(pageKey(0, 50, 0), "not json"))

	_, _, ok, err := c.GetSummaries(ctx, 50, 0)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSummaryCache_RedisDown(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	_, _, _, err := c.GetSummaries(context.Background(), 50, 0)
	assert.Error(t, err)
}
