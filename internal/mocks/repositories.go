package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/repository"
)

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles    map[string]*models.Article
	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
	LastChanges models.ArticleChanges
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func cloneArticle(a *models.Article) *models.Article {
	c := *a
	c.Tags = append([]models.Tag{}, a.Tags...)
	return &c
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Articles[article.ID]; exists {
		return fmt.Errorf("duplicate article id %s", article.ID)
	}
	m.Articles[article.ID] = cloneArticle(article)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	return cloneArticle(a), nil
}

func (m *MockArticleRepository) sorted() []*models.Article {
	list := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	result := []*models.Article{}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, a := range m.sorted() {
		if filter.Lang != nil && a.Lang != *filter.Lang {
			continue
		}
		if filter.CategoryID != nil && a.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.IsPublished != nil && a.IsPublished != *filter.IsPublished {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		result = append(result, cloneArticle(a))
	}
	return result, nil
}

func (m *MockArticleRepository) ListLight(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	list := m.sorted()
	summaries := []models.ArticleSummary{}
	for i := offset; i < len(list) && i < offset+limit; i++ {
		a := list[i]
		s := models.ArticleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Slug:        a.Slug,
			Lang:        a.Lang,
			IsPublished: a.IsPublished,
			PublishedAt: a.PublishedAt,
			UpdatedAt:   a.UpdatedAt,
			Views:       a.DisplayedViews(),
		}
		if a.Category != nil {
			s.CategoryName = a.Category.Name
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Update applies changes the same way the SQL implementation does
func (m *MockArticleRepository) Update(ctx context.Context, id string, c models.ArticleChanges) (*models.Article, error) {
	m.UpdateCalls++
	m.LastChanges = c
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	stored, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}

	a := cloneArticle(stored)
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Slug != nil {
		a.Slug = *c.Slug
	}
	if c.Excerpt.Set {
		a.Excerpt = c.Excerpt.Value
	}
	if c.CategoryID != nil {
		a.CategoryID = *c.CategoryID
	}
	if c.Lang != nil {
		a.Lang = *c.Lang
	}
	if c.Content != nil {
		a.Content = c.Content
	}
	if c.PreviewImage != nil {
		a.PreviewImage = c.PreviewImage
	}
	if c.IsPublished != nil {
		a.IsPublished = *c.IsPublished
	}
	if c.PublishedAt.Set {
		a.PublishedAt = c.PublishedAt.Value
	}
	if c.UseCustomViews != nil {
		a.UseCustomViews = *c.UseCustomViews
	}
	if c.ViewsCountCustom.Set {
		a.ViewsCountCustom = c.ViewsCountCustom.Value
	}
	a.UpdatedAt = c.UpdatedAt

	m.Articles[id] = a
	return cloneArticle(a), nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	return len(m.Articles), nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	list := m.sorted()
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	for _, a := range list {
		if err := callback(cloneArticle(a)); err != nil {
			return err
		}
	}
	return nil
}

// MockTagRepository is a mock implementation of TagRepository keyed by slug
type MockTagRepository struct {
	Tags         map[string]*models.Tag
	GetErrors    map[string]error
	CreateErrors map[string]error
	CreateCalls  int
	nextID       int
}

var _ repository.TagRepository = (*MockTagRepository)(nil)

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		Tags:         make(map[string]*models.Tag),
		GetErrors:    make(map[string]error),
		CreateErrors: make(map[string]error),
	}
}

// Seed stores an existing tag
func (m *MockTagRepository) Seed(id, name, slug string) {
	m.Tags[slug] = &models.Tag{ID: id, Name: name, Slug: slug}
}

func (m *MockTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	if err := m.GetErrors[slug]; err != nil {
		return nil, err
	}
	tag, ok := m.Tags[slug]
	if !ok {
		return nil, nil
	}
	copied := *tag
	return &copied, nil
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	m.CreateCalls++
	if err := m.CreateErrors[tag.Slug]; err != nil {
		return err
	}
	if _, exists := m.Tags[tag.Slug]; exists {
		return fmt.Errorf("duplicate tag slug %s", tag.Slug)
	}
	m.nextID++
	tag.ID = fmt.Sprintf("tag-%d", m.nextID)
	stored := *tag
	m.Tags[tag.Slug] = &stored
	return nil
}

// MockArticleTagRepository is a mock implementation of ArticleTagRepository
type MockArticleTagRepository struct {
	Links       map[string][]string
	InsertError error
	DeleteError error
	InsertCalls int
	DeleteCalls int
}

var _ repository.ArticleTagRepository = (*MockArticleTagRepository)(nil)

func NewMockArticleTagRepository() *MockArticleTagRepository {
	return &MockArticleTagRepository{
		Links: make(map[string][]string),
	}
}

func (m *MockArticleTagRepository) Insert(ctx context.Context, articleID string, tagIDs []string) error {
	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Links[articleID] = append(m.Links[articleID], tagIDs...)
	return nil
}

func (m *MockArticleTagRepository) DeleteByArticle(ctx context.Context, articleID string) error {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Links, articleID)
	return nil
}

func (m *MockArticleTagRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	for _, id := range m.Links[articleID] {
		tags = append(tags, models.Tag{ID: id})
	}
	return tags, nil
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	Stats       map[string]int64
	DeleteError error
}

var _ repository.StatsRepository = (*MockStatsRepository)(nil)

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{
		Stats: make(map[string]int64),
	}
}

func (m *MockStatsRepository) DeleteByArticle(ctx context.Context, articleID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Stats, articleID)
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories []models.Category
	ListError  error
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return append([]models.Category{}, m.Categories...), nil
}

// MockRepositories bundles one mock of each repository
type MockRepositories struct {
	Article    *MockArticleRepository
	Tag        *MockTagRepository
	ArticleTag *MockArticleTagRepository
	Stats      *MockStatsRepository
	Category   *MockCategoryRepository
}

func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		Article:    NewMockArticleRepository(),
		Tag:        NewMockTagRepository(),
		ArticleTag: NewMockArticleTagRepository(),
		Stats:      NewMockStatsRepository(),
		Category:   &MockCategoryRepository{},
	}
}

// Repositories exposes the mocks through the repository interfaces
func (m *MockRepositories) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Article:    m.Article,
		Tag:        m.Tag,
		ArticleTag: m.ArticleTag,
		Stats:      m.Stats,
		Category:   m.Category,
	}
}
