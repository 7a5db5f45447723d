package service

import (
	"context"
	"net/http"
	"time"

	"github.com/article-cms-api/internal/config"
	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/repository"
	"github.com/article-cms-api/internal/slug"
	"github.com/article-cms-api/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdentityProvider supplies the verified id of the calling user
type IdentityProvider interface {
	UserID(ctx context.Context) (string, bool)
}

// ListingCache caches light listing pages. Errors are treated as misses.
// A miss reports the cache generation it saw; the fill is stored under it.
type ListingCache interface {
	GetSummaries(ctx context.Context, limit, offset int) ([]models.ArticleSummary, int64, bool, error)
	SetSummaries(ctx context.Context, gen int64, limit, offset int, summaries []models.ArticleSummary) error
	Invalidate(ctx context.Context) error
}

// ArticleService defines the article operations exposed to the API
type ArticleService interface {
	CreateArticle(ctx context.Context, input *models.CreateArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, input *models.UpdateArticleInput) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	GetAllArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	GetAllArticlesLight(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context) (int, error)
}

// TagResolver turns tag names into tag ids, creating missing tags
type TagResolver interface {
	Resolve(ctx context.Context, names []string) []string
}

// AssetManager owns the lifecycle of cover images in the blob store
type AssetManager interface {
	Upload(ctx context.Context, file *models.ImageFile) (string, error)
	Remove(ctx context.Context, publicURL string)
}

// Dependencies are the collaborators that are not repositories
type Dependencies struct {
	Store    storage.BlobStore
	Identity IdentityProvider
	Cache    ListingCache // optional
	Metrics  *metrics.Metrics
	Now      func() time.Time
	NewUUID  func() uuid.UUID
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Export  ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewUUID == nil {
		deps.NewUUID = uuid.New
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewUnregistered()
	}
	if deps.Cache == nil {
		deps.Cache = noopCache{}
	}

	tags := newTagResolver(repos.Tag, slug.New("", slug.UUIDFunc(deps.NewUUID)), deps.Metrics, log)
	assets := newAssetManager(deps.Store, cfg.Storage, deps.NewUUID, deps.Metrics, log)

	return &Services{
		Article: newArticleService(repos, tags, assets, deps, log),
		Export:  newExportService(repos, log),
	}
}

type noopCache struct{}

func (noopCache) GetSummaries(context.Context, int, int) ([]models.ArticleSummary, int64, bool, error) {
	return nil, 0, false, nil
}

func (noopCache) SetSummaries(context.Context, int64, int, int, []models.ArticleSummary) error {
	return nil
}

func (noopCache) Invalidate(context.Context) error {
	return nil
}
