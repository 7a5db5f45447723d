package service_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/article-cms-api/internal/models"
)

// BenchmarkStreamArticles benchmarks streaming export performance
func BenchmarkStreamArticles(b *testing.B) {
	f := newFixture(b)
	for i := 0; i < 1000; i++ {
		f.repos.Article.Create(context.Background(), &models.Article{
			ID:        fmt.Sprintf("article-%04d", i),
			Title:     fmt.Sprintf("Benchmark article %d", i),
			Slug:      fmt.Sprintf("benchmark-article-%d_0000%04d", i, i),
			Lang:      models.LangRU,
			Content:   content(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	for _, format := range []string{"ndjson", "json", "csv"} {
		b.Run(format, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				if err := f.svc.Export.StreamArticles(context.Background(), w, format); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
		})
	}
}

// BenchmarkCreateArticle benchmarks the create path with tag resolution against mocks
func BenchmarkCreateArticle(b *testing.B) {
	f := newFixture(b)
	ctx := asUser(authorID)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := f.svc.Article.CreateArticle(ctx, createInput("Go", "Web", "Databases")); err != nil {
			b.Fatal(err)
		}
	}
}
