package service

import (
	"context"
	"fmt"
	"time"

	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/repository"
	"github.com/article-cms-api/internal/slug"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Light listing bounds
const (
	DefaultLightLimit = 50
	MaxLightLimit     = 100
)

// articleService is the concrete implementation of ArticleService.
// It keeps the article row, its tag associations and its cover image consistent.
type articleService struct {
	repos   *repository.Repositories
	tags    TagResolver
	assets  AssetManager
	ids     IdentityProvider
	cache   ListingCache
	metrics *metrics.Metrics
	now     func() time.Time
	newUUID func() uuid.UUID
	log     zerolog.Logger
}

func newArticleService(repos *repository.Repositories, tags TagResolver, assets AssetManager, deps Dependencies, log zerolog.Logger) *articleService {
	return &articleService{
		repos:   repos,
		tags:    tags,
		assets:  assets,
		ids:     deps.Identity,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		now:     deps.Now,
		newUUID: deps.NewUUID,
		log:     log.With().Str("service", "articles").Logger(),
	}
}

func errUnauthorized() error {
	return models.NewAppError(models.CodeUnauthorized, "authentication required", nil)
}

func errNotFound(id string) error {
	return models.NewAppError(models.CodeNotFound, fmt.Sprintf("article %s not found", id), nil)
}

func errDatabase(msg string, err error) error {
	return models.NewAppError(models.CodeDatabase, msg, err)
}

// finish converts a recovered panic into INTERNAL_ERROR and records the outcome
func (s *articleService) finish(op string, recovered interface{}, err *error) {
	if recovered != nil {
		s.log.Error().
			Str("operation", op).
			Interface("panic", recovered).
			Msg("Recovered from panic")
		*err = models.NewAppError(models.CodeInternal, "internal error", fmt.Errorf("panic: %v", recovered))
	}

	result := "success"
	if *err != nil {
		result = string(models.ErrorCodeOf(*err))
	}
	s.metrics.RecordOperation(op, result)
}

func (s *articleService) slugFor(lang models.Lang, title string) string {
	return slug.New(string(lang), slug.UUIDFunc(s.newUUID)).Generate(title)
}

func (s *articleService) bestEffort(step string, err error, articleID string, msg string) {
	s.log.Warn().Err(err).Str("article_id", articleID).Str("step", step).Msg(msg)
	s.metrics.RecordBestEffortFailure(step)
}

func (s *articleService) invalidateListing(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.bestEffort("cache_invalidate", err, "", "Listing cache invalidation failed")
	}
}

// currentTags reloads the associations of an article, falling back to fallback on error
func (s *articleService) currentTags(ctx context.Context, articleID string, fallback []models.Tag) []models.Tag {
	tags, err := s.repos.ArticleTag.ListByArticle(ctx, articleID)
	if err != nil {
		s.bestEffort("tag_list", err, articleID, "Failed to reload article tags")
		return fallback
	}
	return tags
}

// load fetches one article. Ids that are not UUIDs cannot exist.
func (s *articleService) load(ctx context.Context, id string) (*models.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errNotFound(id)
	}

	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, errDatabase("failed to load article", err)
	}
	if article == nil {
		return nil, errNotFound(id)
	}
	return article, nil
}

// authorize loads the article and checks that the caller is its author
func (s *articleService) authorize(ctx context.Context, id string) (*models.Article, error) {
	userID, ok := s.ids.UserID(ctx)
	if !ok {
		return nil, errUnauthorized()
	}

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, models.NewAppError(models.CodeForbidden, "only the author may modify this article", nil)
	}
	return existing, nil
}

// CreateArticle uploads the cover image, inserts the row and links the tags.
// A failed insert removes the uploaded image again.
func (s *articleService) CreateArticle(ctx context.Context, input *models.CreateArticleInput) (article *models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			s.finish("create", r, &err)
			return
		}
		s.finish("create", nil, &err)
	}()

	userID, ok := s.ids.UserID(ctx)
	if !ok {
		return nil, errUnauthorized()
	}
	if input.PreviewImage == nil || len(input.PreviewImage.Data) == 0 {
		return nil, models.NewAppError(models.CodeUpload, "preview image is required", nil)
	}

	tagIDs := s.tags.Resolve(ctx, input.Tags)

	imageURL, err := s.assets.Upload(ctx, input.PreviewImage)
	if err != nil {
		return nil, err
	}

	now := s.now()
	article = &models.Article{
		ID:           s.newUUID().String(),
		Title:        input.Title,
		Slug:         s.slugFor(input.Lang, input.Title),
		CategoryID:   input.CategoryID,
		Lang:         input.Lang,
		Content:      input.Content,
		PreviewImage: &imageURL,
		AuthorID:     userID,
		IsPublished:  input.IsPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         []models.Tag{},
	}
	if input.Excerpt != "" {
		excerpt := input.Excerpt
		article.Excerpt = &excerpt
	}
	if input.IsPublished {
		article.PublishedAt = &now
	}

	if err := s.repos.Article.Create(ctx, article); err != nil {
		s.log.Error().Err(err).Str("slug", article.Slug).Msg("Article insert failed, removing uploaded image")
		s.assets.Remove(ctx, imageURL)
		return nil, errDatabase("failed to create article", err)
	}

	if len(tagIDs) > 0 {
		if err := s.repos.ArticleTag.Insert(ctx, article.ID, tagIDs); err != nil {
			s.bestEffort("tag_link", err, article.ID, "Failed to link tags to new article")
		}
		article.Tags = s.currentTags(ctx, article.ID, article.Tags)
	}

	s.invalidateListing(ctx)

	s.log.Info().
		Str("article_id", article.ID).
		Str("slug", article.Slug).
		Int("tags", len(tagIDs)).
		Msg("Article created")

	return article, nil
}

// buildChanges turns a sparse input into column changes. The views_count_custom
// value is applied after the use_custom_views side effect, so an explicit value wins.
func (s *articleService) buildChanges(input *models.UpdateArticleInput, existing *models.Article, now time.Time) models.ArticleChanges {
	changes := models.ArticleChanges{UpdatedAt: now}

	if input.Title != nil {
		changes.Title = input.Title
		// editors resubmit the stored title; the slug only follows a real rename
		if *input.Title != existing.Title {
			lang := existing.Lang
			if input.Lang != nil {
				lang = *input.Lang
			}
			newSlug := s.slugFor(lang, *input.Title)
			changes.Slug = &newSlug
		}
	}
	if input.Excerpt != nil {
		changes.Excerpt = models.NewNullableString(*input.Excerpt)
	}
	if input.CategoryID != nil {
		changes.CategoryID = input.CategoryID
	}
	if input.Lang != nil {
		changes.Lang = input.Lang
	}
	if len(input.Content) > 0 {
		changes.Content = input.Content
	}

	if input.IsPublished != nil {
		changes.IsPublished = input.IsPublished
		switch {
		case !*input.IsPublished:
			changes.PublishedAt = models.NullTime()
		case existing.PublishedAt == nil:
			changes.PublishedAt = models.NewNullableTime(now)
		}
	}

	if input.UseCustomViews != nil {
		changes.UseCustomViews = input.UseCustomViews
		if !*input.UseCustomViews {
			changes.ViewsCountCustom = models.NullInt()
		}
	}
	if input.ViewsCountCustom.Set {
		changes.ViewsCountCustom = input.ViewsCountCustom
	}

	return changes
}

// UpdateArticle applies a sparse update. A new cover image is uploaded before the
// row is touched; the previous image is removed only after the row update succeeds.
func (s *articleService) UpdateArticle(ctx context.Context, input *models.UpdateArticleInput) (article *models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			s.finish("update", r, &err)
			return
		}
		s.finish("update", nil, &err)
	}()

	existing, err := s.authorize(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	changes := s.buildChanges(input, existing, now)

	var newImageURL string
	if input.PreviewImage != nil {
		newImageURL, err = s.assets.Upload(ctx, input.PreviewImage)
		if err != nil {
			return nil, err
		}
		changes.PreviewImage = &newImageURL
	}

	updated, err := s.repos.Article.Update(ctx, input.ID, changes)
	if err != nil || updated == nil {
		if newImageURL != "" {
			s.assets.Remove(ctx, newImageURL)
		}
		if err != nil {
			s.log.Error().Err(err).Str("article_id", input.ID).Msg("Article update failed")
			return nil, errDatabase("failed to update article", err)
		}
		return nil, errNotFound(input.ID)
	}

	if newImageURL != "" && existing.HasPreviewImage() && *existing.PreviewImage != newImageURL {
		s.assets.Remove(ctx, *existing.PreviewImage)
	}

	if input.Tags != nil {
		if err := s.repos.ArticleTag.DeleteByArticle(ctx, input.ID); err != nil {
			s.bestEffort("tag_unlink", err, input.ID, "Failed to clear article tags")
		}
		if tagIDs := s.tags.Resolve(ctx, *input.Tags); len(tagIDs) > 0 {
			if err := s.repos.ArticleTag.Insert(ctx, input.ID, tagIDs); err != nil {
				s.bestEffort("tag_link", err, input.ID, "Failed to link tags to article")
			}
		}
	}
	updated.Tags = s.currentTags(ctx, input.ID, existing.Tags)

	s.invalidateListing(ctx)

	s.log.Info().
		Str("article_id", updated.ID).
		Bool("image_replaced", newImageURL != "").
		Bool("tags_replaced", input.Tags != nil).
		Msg("Article updated")

	return updated, nil
}

// DeleteArticle removes the cover image, the associations, the stats row and the
// article row. Only a failure of the last step is reported.
func (s *articleService) DeleteArticle(ctx context.Context, id string) (err error) {
	defer func() {
		s.finish("delete", recover(), &err)
	}()

	existing, err := s.authorize(ctx, id)
	if err != nil {
		return err
	}

	if existing.HasPreviewImage() {
		s.assets.Remove(ctx, *existing.PreviewImage)
	}
	if err := s.repos.ArticleTag.DeleteByArticle(ctx, id); err != nil {
		s.bestEffort("tag_unlink", err, id, "Failed to delete article tags")
	}
	if err := s.repos.Stats.DeleteByArticle(ctx, id); err != nil {
		s.bestEffort("stats_delete", err, id, "Failed to delete article stats")
	}

	if err := s.repos.Article.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("article_id", id).Msg("Article delete failed")
		return errDatabase("failed to delete article", err)
	}

	s.invalidateListing(ctx)

	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// GetArticleByID returns the joined article detail
func (s *articleService) GetArticleByID(ctx context.Context, id string) (article *models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			s.finish("get", r, &err)
			return
		}
		s.finish("get", nil, &err)
	}()

	return s.load(ctx, id)
}

// GetAllArticles lists articles matching filter, most recently updated first
func (s *articleService) GetAllArticles(ctx context.Context, filter models.ArticleFilter) (articles []*models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			s.finish("list", r, &err)
			return
		}
		s.finish("list", nil, &err)
	}()

	articles, err = s.repos.Article.List(ctx, filter)
	if err != nil {
		return nil, errDatabase("failed to list articles", err)
	}
	return articles, nil
}

// GetAllArticlesLight returns one page of summaries. A zero limit means the default.
func (s *articleService) GetAllArticlesLight(ctx context.Context, limit, offset int) (summaries []models.ArticleSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			summaries = nil
			s.finish("list_light", r, &err)
			return
		}
		s.finish("list_light", nil, &err)
	}()

	if limit == 0 {
		limit = DefaultLightLimit
	}
	if limit < 1 || limit > MaxLightLimit {
		return nil, models.NewAppError(models.CodeValidation,
			fmt.Sprintf("limit must be between 1 and %d", MaxLightLimit), nil)
	}
	if offset < 0 {
		return nil, models.NewAppError(models.CodeValidation, "offset must not be negative", nil)
	}

	cached, gen, hit, cacheErr := s.cache.GetSummaries(ctx, limit, offset)
	if cacheErr != nil {
		s.bestEffort("cache_read", cacheErr, "", "Listing cache read failed")
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return cached, nil
	}

	summaries, err = s.repos.Article.ListLight(ctx, limit, offset)
	if err != nil {
		return nil, errDatabase("failed to list articles", err)
	}

	if err := s.cache.SetSummaries(ctx, gen, limit, offset, summaries); err != nil {
		s.bestEffort("cache_write", err, "", "Listing cache write failed")
	}
	return summaries, nil
}

// ListCategories returns all categories by name
func (s *articleService) ListCategories(ctx context.Context) (categories []models.Category, err error) {
	defer func() {
		if r := recover(); r != nil {
			categories = nil
			s.finish("categories", r, &err)
			return
		}
		s.finish("categories", nil, &err)
	}()

	categories, err = s.repos.Category.List(ctx)
	if err != nil {
		return nil, errDatabase("failed to list categories", err)
	}
	return categories, nil
}
