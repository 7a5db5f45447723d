package repository

import (
	"context"
	"fmt"

	"github.com/article-cms-api/internal/database"
)

type statsRepo struct {
	db *database.DB
}

// NewStatsRepo creates a new article stats repository
func NewStatsRepo(db *database.DB) StatsRepository {
	return &statsRepo{db: db}
}

// DeleteByArticle removes the stats row of the article, if any
func (r *statsRepo) DeleteByArticle(ctx context.Context, articleID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM article_stats WHERE article_id = $1", articleID); err != nil {
		return fmt.Errorf("delete stats of %s: %w", articleID, err)
	}
	return nil
}
