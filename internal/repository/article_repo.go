package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/article-cms-api/internal/database"
	"github.com/article-cms-api/internal/models"
)

// articleSelect reads an article joined with its stats row and category
const articleSelect = `
	SELECT a.id, a.title, a.slug, a.excerpt, a.category_id, a.lang, a.content, a.preview_image,
		a.author_id, a.is_published, a.published_at, a.created_at, a.updated_at,
		a.use_custom_views, a.views_count_custom,
		COALESCE(s.views_count, 0), c.name, c.slug
	FROM %s a
	LEFT JOIN article_stats s ON s.article_id = a.id
	LEFT JOIN categories c ON c.id = a.category_id
`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		article      models.Article
		excerpt      sql.NullString
		content      []byte
		previewImage sql.NullString
		publishedAt  sql.NullTime
		viewsCustom  sql.NullInt64
		categoryName sql.NullString
		categorySlug sql.NullString
	)

	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &excerpt, &article.CategoryID, &article.Lang,
		&content, &previewImage, &article.AuthorID, &article.IsPublished, &publishedAt,
		&article.CreatedAt, &article.UpdatedAt, &article.UseCustomViews, &viewsCustom,
		&article.ViewsCount, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	article.Content = content
	if excerpt.Valid {
		article.Excerpt = &excerpt.String
	}
	if previewImage.Valid {
		article.PreviewImage = &previewImage.String
	}
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	if viewsCustom.Valid {
		article.ViewsCountCustom = &viewsCustom.Int64
	}
	if categoryName.Valid {
		article.Category = &models.Category{
			ID:   article.CategoryID,
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}
	article.Tags = []models.Tag{}

	return &article, nil
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, slug, excerpt, category_id, lang, content, preview_image,
			author_id, is_published, published_at, created_at, updated_at, use_custom_views, views_count_custom)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Excerpt, article.CategoryID, string(article.Lang),
		string(article.Content), article.PreviewImage, article.AuthorID, article.IsPublished,
		article.PublishedAt, article.CreatedAt, article.UpdatedAt, article.UseCustomViews,
		article.ViewsCountCustom,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID retrieves an article with its category, tags and views
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(articleSelect, "articles") + " WHERE a.id = $1"

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}

	tags, err := listTagsByArticle(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	article.Tags = tags

	return article, nil
}

// List returns articles matching filter, most recently updated first
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	where, args := buildFilter(filter)
	query := fmt.Sprintf(articleSelect, "articles") + where + " ORDER BY a.updated_at DESC, a.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ListLight returns a page of summaries ordered by updated_at desc, then id
func (r *articleRepo) ListLight(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error) {
	query := `
		SELECT a.id, a.title, a.slug, a.lang, COALESCE(c.name, ''), a.is_published, a.published_at,
			a.updated_at,
			CASE WHEN a.use_custom_views AND a.views_count_custom IS NOT NULL
				THEN a.views_count_custom ELSE COALESCE(s.views_count, 0) END
		FROM articles a
		LEFT JOIN article_stats s ON s.article_id = a.id
		LEFT JOIN categories c ON c.id = a.category_id
		ORDER BY a.updated_at DESC, a.id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list article summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.ArticleSummary{}
	for rows.Next() {
		var s models.ArticleSummary
		var publishedAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Slug, &s.Lang, &s.CategoryName, &s.IsPublished, &publishedAt,
			&s.UpdatedAt, &s.Views,
		); err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			s.PublishedAt = &publishedAt.Time
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Update applies changes in a single statement and returns the updated row,
// or nil when no article has the given id
func (r *articleRepo) Update(ctx context.Context, id string, changes models.ArticleChanges) (*models.Article, error) {
	set, args := buildUpdate(changes)
	args = append(args, id)

	query := fmt.Sprintf(
		"WITH updated AS (UPDATE articles SET %s WHERE id = $%d RETURNING *)",
		set, len(args),
	) + fmt.Sprintf(articleSelect, "updated")

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}
	return article, nil
}

// Delete removes the article row
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// StreamAll streams all articles for export
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	query := fmt.Sprintf(articleSelect, "articles") + " ORDER BY a.created_at, a.id"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}

// buildFilter renders the WHERE clause for a listing filter
func buildFilter(filter models.ArticleFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Lang != nil {
		add("a.lang = $%d", string(*filter.Lang))
	}
	if filter.CategoryID != nil {
		add("a.category_id = $%d", *filter.CategoryID)
	}
	if filter.IsPublished != nil {
		add("a.is_published = $%d", *filter.IsPublished)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add(`a.title ILIKE $%d ESCAPE '\'`, likePattern(search))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// likePattern wraps s for a contains match, escaping LIKE metacharacters
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// buildUpdate renders the SET list for the present changes. updated_at is always written.
func buildUpdate(c models.ArticleChanges) (string, []interface{}) {
	var sets []string
	var args []interface{}

	set := func(column string, arg interface{}) {
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if c.Title != nil {
		set("title", *c.Title)
	}
	if c.Slug != nil {
		set("slug", *c.Slug)
	}
	if c.Excerpt.Set {
		set("excerpt", c.Excerpt.Value)
	}
	if c.CategoryID != nil {
		set("category_id", *c.CategoryID)
	}
	if c.Lang != nil {
		set("lang", string(*c.Lang))
	}
	if c.Content != nil {
		set("content", string(c.Content))
	}
	if c.PreviewImage != nil {
		set("preview_image", *c.PreviewImage)
	}
	if c.IsPublished != nil {
		set("is_published", *c.IsPublished)
	}
	if c.PublishedAt.Set {
		set("published_at", c.PublishedAt.Value)
	}
	if c.UseCustomViews != nil {
		set("use_custom_views", *c.UseCustomViews)
	}
	if c.ViewsCountCustom.Set {
		set("views_count_custom", c.ViewsCountCustom.Value)
	}
	set("updated_at", c.UpdatedAt)

	return strings.Join(sets, ", "), args
}
