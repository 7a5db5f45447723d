package mocks

import (
	"context"
	"net/http"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService.
// Unset funcs return zero values.
type MockArticleService struct {
	CreateFunc     func(ctx context.Context, input *models.CreateArticleInput) (*models.Article, error)
	UpdateFunc     func(ctx context.Context, input *models.UpdateArticleInput) (*models.Article, error)
	DeleteFunc     func(ctx context.Context, id string) error
	GetFunc        func(ctx context.Context, id string) (*models.Article, error)
	ListFunc       func(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListLightFunc  func(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error)
	CategoriesFunc func(ctx context.Context) ([]models.Category, error)

	CreateInputs []*models.CreateArticleInput
	UpdateInputs []*models.UpdateArticleInput
	LastFilter   models.ArticleFilter
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) CreateArticle(ctx context.Context, input *models.CreateArticleInput) (*models.Article, error) {
	m.CreateInputs = append(m.CreateInputs, input)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input)
	}
	return &models.Article{ID: "new-article", Title: input.Title, Lang: input.Lang, Tags: []models.Tag{}}, nil
}

func (m *MockArticleService) UpdateArticle(ctx context.Context, input *models.UpdateArticleInput) (*models.Article, error) {
	m.UpdateInputs = append(m.UpdateInputs, input)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, input)
	}
	return &models.Article{ID: input.ID, Tags: []models.Tag{}}, nil
}

func (m *MockArticleService) DeleteArticle(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockArticleService) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Article{ID: id, Tags: []models.Tag{}}, nil
}

func (m *MockArticleService) GetAllArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	m.LastFilter = filter
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) GetAllArticlesLight(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error) {
	if m.ListLightFunc != nil {
		return m.ListLightFunc(ctx, limit, offset)
	}
	return []models.ArticleSummary{}, nil
}

func (m *MockArticleService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	return []models.Category{}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Count              int
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Write([]byte("{}\n"))
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context) (int, error) {
	return m.Count, nil
}
