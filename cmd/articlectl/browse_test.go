package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/pager"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPager(t *testing.T, n int) *pager.Pager {
	t.Helper()
	fetch := pager.FetcherFunc(func(_ context.Context, limit, offset int) ([]models.ArticleSummary, error) {
		out := []models.ArticleSummary{}
		for i := offset; i < offset+limit && i < n; i++ {
			out = append(out, models.ArticleSummary{ID: fmt.Sprintf("a%02d", i), Title: fmt.Sprintf("Title %d", i), Lang: models.LangRU})
		}
		return out, nil
	})
	p := pager.New(fetch, pager.Options{BatchSize: 20, PageSize: 5, PrefetchMargin: 5}, zerolog.Nop())
	require.NoError(t, p.Load(context.Background()))
	return p
}

func TestBrowse_Navigation(t *testing.T) {
	p := newTestPager(t, 12)
	var out bytes.Buffer

	err := browse(context.Background(), p, strings.NewReader("n\n3\np\n9\nq\n"), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "page 1 of 3  [(1) 2 3]  12 articles")
	assert.Contains(t, text, "page 2 of 3  [1 (2) 3]")
	assert.Contains(t, text, "page 3 of 3  [1 2 (3)]")
	assert.Contains(t, text, "a10")
	assert.Contains(t, text, "page 9 is out of range 1-3")
	assert.Equal(t, 2, p.CurrentPageNumber())
}

func TestBrowse_EOFStops(t *testing.T) {
	p := newTestPager(t, 3)
	var out bytes.Buffer

	require.NoError(t, browse(context.Background(), p, strings.NewReader("n\n"), &out))
	assert.Contains(t, out.String(), "already on the last page")
}

func TestPageBar_Ellipsis(t *testing.T) {
	ctx := context.Background()
	p := newTestPager(t, 100)
	// 20 loaded, not exhausted: 4 pages + 1 estimated
	for i := 0; i < 6; i++ {
		p.NextPage(ctx)
		p.Wait()
	}

	bar := pageBar(p)
	assert.Contains(t, bar, "...")
	assert.Contains(t, bar, "(7)")
	assert.True(t, strings.HasSuffix(totalLabel(p), "+"))
}
