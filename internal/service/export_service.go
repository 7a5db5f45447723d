package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/repository"
	"github.com/rs/zerolog"
)

// flushEvery is the number of streamed records between flushes
const flushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams all articles in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	case "json":
		return s.streamJSON(ctx, w)
	case "csv":
		return s.streamCSV(ctx, w)
	default:
		return models.NewAppError(models.CodeValidation, fmt.Sprintf("unsupported format: %s", format), nil)
	}
}

// GetCount returns the number of articles that an export would contain
func (s *exportService) GetCount(ctx context.Context) (int, error) {
	count, err := s.repos.Article.Count(ctx)
	if err != nil {
		return 0, errDatabase("failed to count articles", err)
	}
	return count, nil
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	w.Write([]byte("["))
	count := 0

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		if count > 0 {
			w.Write([]byte(","))
		}
		count++

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

// streamCSV writes the summary columns only; content is a structured document
func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"id", "title", "slug", "lang", "category_id", "author_id", "is_published", "published_at", "views", "updated_at"})

	return s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		publishedAt := ""
		if article.PublishedAt != nil {
			publishedAt = article.PublishedAt.Format(time.RFC3339)
		}
		return writer.Write([]string{
			article.ID,
			article.Title,
			article.Slug,
			string(article.Lang),
			strconv.FormatInt(article.CategoryID, 10),
			article.AuthorID,
			strconv.FormatBool(article.IsPublished),
			publishedAt,
			strconv.FormatInt(article.DisplayedViews(), 10),
			article.UpdatedAt.Format(time.RFC3339),
		})
	})
}
