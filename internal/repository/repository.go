package repository

import (
	"context"

	"github.com/article-cms-api/internal/database"
	"github.com/article-cms-api/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListLight(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error)
	Update(ctx context.Context, id string, changes models.ArticleChanges) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
}

// ArticleTagRepository manages article to tag membership rows
type ArticleTagRepository interface {
	Insert(ctx context.Context, articleID string, tagIDs []string) error
	DeleteByArticle(ctx context.Context, articleID string) error
	ListByArticle(ctx context.Context, articleID string) ([]models.Tag, error)
}

// StatsRepository manages the externally maintained view counters
type StatsRepository interface {
	DeleteByArticle(ctx context.Context, articleID string) error
}

// CategoryRepository is read-only
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article    ArticleRepository
	Tag        TagRepository
	ArticleTag ArticleTagRepository
	Stats      StatsRepository
	Category   CategoryRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:    NewArticleRepo(db),
		Tag:        NewTagRepo(db),
		ArticleTag: NewArticleTagRepo(db),
		Stats:      NewStatsRepo(db),
		Category:   NewCategoryRepo(db),
	}
}
