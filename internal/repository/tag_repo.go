package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/article-cms-api/internal/database"
	"github.com/article-cms-api/internal/models"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

// GetBySlug retrieves a tag by its unique slug
func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug FROM tags WHERE slug = $1", slug,
	).Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag %q: %w", slug, err)
	}
	return &tag, nil
}

// Create inserts a tag and fills in its generated id
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id",
		tag.Name, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		return fmt.Errorf("create tag %q: %w", tag.Slug, err)
	}
	return nil
}
