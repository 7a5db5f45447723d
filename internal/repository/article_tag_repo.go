package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/article-cms-api/internal/database"
	"github.com/article-cms-api/internal/models"
	"github.com/lib/pq"
)

// articleTagRepo is the concrete implementation of ArticleTagRepository
type articleTagRepo struct {
	db *database.DB
}

// NewArticleTagRepo creates a new article tag repository
func NewArticleTagRepo(db *database.DB) ArticleTagRepository {
	return &articleTagRepo{db: db}
}

// Insert adds membership rows using PostgreSQL COPY
func (r *articleTagRepo) Insert(ctx context.Context, articleID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("article_tags", "article_id", "tag_id"))
		if err != nil {
			return fmt.Errorf("prepare article_tags copy: %w", err)
		}
		defer stmt.Close()

		for _, tagID := range tagIDs {
			if _, err := stmt.ExecContext(ctx, articleID, tagID); err != nil {
				return fmt.Errorf("copy article tag %s: %w", tagID, err)
			}
		}

		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flush article_tags copy: %w", err)
		}
		return nil
	})
}

// DeleteByArticle removes every membership row of the article
func (r *articleTagRepo) DeleteByArticle(ctx context.Context, articleID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM article_tags WHERE article_id = $1", articleID); err != nil {
		return fmt.Errorf("delete article tags of %s: %w", articleID, err)
	}
	return nil
}

// ListByArticle returns the tags attached to the article, by name
func (r *articleTagRepo) ListByArticle(ctx context.Context, articleID string) ([]models.Tag, error) {
	return listTagsByArticle(ctx, r.db, articleID)
}

func listTagsByArticle(ctx context.Context, db *database.DB, articleID string) ([]models.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id = $1
		ORDER BY t.name
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list tags of %s: %w", articleID, err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
