// Package pager accumulates article summaries in fixed-size batches and serves
// them as smaller UI pages, fetching the next batch before the reader runs out.
package pager

import (
	"context"
	"sync"

	"github.com/article-cms-api/internal/models"
	"github.com/rs/zerolog"
)

// Defaults
const (
	DefaultBatchSize      = 50
	DefaultPageSize       = 10
	DefaultPrefetchMargin = 20

	ellipsisThreshold = 7
)

// Ellipsis marks a gap in PageNumbers
const Ellipsis = 0

// Fetcher loads one batch of summaries
type Fetcher interface {
	FetchSummaries(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error)

func (f FetcherFunc) FetchSummaries(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error) {
	return f(ctx, limit, offset)
}

// Options configures a Pager. Zero values fall back to the defaults.
type Options struct {
	BatchSize      int
	PageSize       int
	PrefetchMargin int
}

// Pager is safe for concurrent use. At most one fetch is in flight at a time.
type Pager struct {
	fetcher Fetcher
	log     zerolog.Logger

	batchSize int
	pageSize  int
	margin    int

	mu        sync.Mutex
	idle      *sync.Cond
	items     []models.ArticleSummary
	page      int
	loading   bool
	exhausted bool
	total     int // valid once exhausted
}

// New creates a Pager. Nothing is fetched until Load or GoToPage is called.
func New(fetcher Fetcher, opts Options, log zerolog.Logger) *Pager {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PrefetchMargin <= 0 {
		opts.PrefetchMargin = DefaultPrefetchMargin
	}

	p := &Pager{
		fetcher:   fetcher,
		log:       log.With().Str("component", "pager").Logger(),
		batchSize: opts.BatchSize,
		pageSize:  opts.PageSize,
		margin:    opts.PrefetchMargin,
		page:      1,
	}
	p.idle = sync.NewCond(&p.mu)
	return p
}

// Load fetches the next batch synchronously, waiting for any fetch in flight first.
// It is used for the initial batch.
func (p *Pager) Load(ctx context.Context) error {
	p.mu.Lock()
	for p.loading {
		p.idle.Wait()
	}
	if p.exhausted {
		p.mu.Unlock()
		return nil
	}
	offset := len(p.items)
	p.loading = true
	p.mu.Unlock()

	batch, err := p.fetcher.FetchSummaries(ctx, p.batchSize, offset)
	p.complete(offset, batch, err)
	return err
}

// complete records the outcome of a fetch and wakes waiters
func (p *Pager) complete(offset int, batch []models.ArticleSummary, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.idle.Broadcast()

	p.loading = false
	if err != nil {
		p.log.Error().Err(err).Int("offset", offset).Msg("Batch fetch failed")
		return
	}

	p.items = append(p.items, batch...)
	if len(batch) < p.batchSize {
		p.exhausted = true
		p.total = len(p.items)
	}
	p.log.Debug().
		Int("offset", offset).
		Int("received", len(batch)).
		Int("loaded", len(p.items)).
		Bool("exhausted", p.exhausted).
		Msg("Batch loaded")
}

// maybePrefetchLocked starts a background fetch when the current page is within
// the prefetch margin of the end of the loaded data. p.mu must be held.
func (p *Pager) maybePrefetchLocked(ctx context.Context) {
	if p.exhausted || p.loading {
		return
	}
	if p.page*p.pageSize < len(p.items)-p.margin {
		return
	}

	offset := len(p.items)
	p.loading = true
	go func() {
		batch, err := p.fetcher.FetchSummaries(ctx, p.batchSize, offset)
		p.complete(offset, batch, err)
	}()
}

// GoToPage switches to page n. It returns false and changes nothing when n is
// outside [1, TotalPages()]. A prefetch it triggers runs with ctx, so ctx must
// outlive the call.
func (p *Pager) GoToPage(ctx context.Context, n int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n < 1 || n > p.totalPagesLocked() {
		return false
	}
	p.page = n
	p.maybePrefetchLocked(ctx)
	return true
}

// NextPage moves forward one page
func (p *Pager) NextPage(ctx context.Context) bool {
	return p.GoToPage(ctx, p.CurrentPageNumber()+1)
}

// PrevPage moves back one page
func (p *Pager) PrevPage(ctx context.Context) bool {
	return p.GoToPage(ctx, p.CurrentPageNumber()-1)
}

// Wait blocks until no fetch is in flight
func (p *Pager) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.loading {
		p.idle.Wait()
	}
}

// CurrentPage returns the summaries of the current page. It may be shorter than
// the page size, or empty while the batch holding it is still loading.
func (p *Pager) CurrentPage() []models.ArticleSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := (p.page - 1) * p.pageSize
	if start >= len(p.items) {
		return []models.ArticleSummary{}
	}
	end := min(start+p.pageSize, len(p.items))
	out := make([]models.ArticleSummary, end-start)
	copy(out, p.items[start:end])
	return out
}

// CurrentPageNumber returns the 1-based current page
func (p *Pager) CurrentPageNumber() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func (p *Pager) totalPagesLocked() int {
	if p.exhausted {
		return ceilDiv(p.total, p.pageSize)
	}
	return ceilDiv(len(p.items), p.pageSize) + 1
}

// TotalPages is exact once all data is loaded and one page ahead of the loaded data otherwise
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPagesLocked()
}

// HasNextPage reports whether GoToPage(current+1) would succeed
func (p *Pager) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.totalPagesLocked()
}

// HasPrevPage reports whether the current page is not the first
func (p *Pager) HasPrevPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page > 1
}

// TotalArticles is the known total once exhausted, else the loaded count
func (p *Pager) TotalArticles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exhausted {
		return p.total
	}
	return len(p.items)
}

// LoadedArticles returns the number of accumulated summaries
func (p *Pager) LoadedArticles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// IsLoading reports whether a fetch is in flight
func (p *Pager) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// HasMore reports whether more batches may exist
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.exhausted
}

// PageNumbers lists the page buttons to show. Up to seven pages are listed in
// full; beyond that gaps are marked with Ellipsis.
func (p *Pager) PageNumbers() []int {
	p.mu.Lock()
	current, total := p.page, p.totalPagesLocked()
	p.mu.Unlock()

	return pageNumbers(current, total)
}

func pageNumbers(current, total int) []int {
	if total <= ellipsisThreshold {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}
