package service

import (
	"context"

	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/repository"
	"github.com/article-cms-api/internal/slug"
	"github.com/rs/zerolog"
)

// tagResolver is the concrete implementation of TagResolver
type tagResolver struct {
	tags    repository.TagRepository
	slugs   *slug.Generator
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func newTagResolver(tags repository.TagRepository, slugs *slug.Generator, m *metrics.Metrics, log zerolog.Logger) *tagResolver {
	return &tagResolver{
		tags:    tags,
		slugs:   slugs,
		metrics: m,
		log:     log.With().Str("service", "tags").Logger(),
	}
}

// Resolve returns the ids of the named tags in first-seen order without duplicates.
// A tag that cannot be looked up or created is skipped.
func (r *tagResolver) Resolve(ctx context.Context, names []string) []string {
	ids := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		tagSlug := r.slugs.Normalize(name)
		if tagSlug == "" {
			continue
		}

		id, ok := r.resolveOne(ctx, name, tagSlug)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids
}

func (r *tagResolver) resolveOne(ctx context.Context, name, tagSlug string) (string, bool) {
	existing, err := r.tags.GetBySlug(ctx, tagSlug)
	if err != nil {
		r.log.Warn().Err(err).Str("tag", name).Str("slug", tagSlug).Msg("Tag lookup failed, skipping")
		r.metrics.RecordBestEffortFailure("tag_lookup")
		return "", false
	}
	if existing != nil {
		return existing.ID, true
	}

	tag := &models.Tag{Name: name, Slug: tagSlug}
	if err := r.tags.Create(ctx, tag); err != nil {
		r.log.Warn().Err(err).Str("tag", name).Str("slug", tagSlug).Msg("Tag creation failed, skipping")
		r.metrics.RecordBestEffortFailure("tag_create")
		return "", false
	}

	r.log.Debug().Str("tag", name).Str("id", tag.ID).Msg("Tag created")
	return tag.ID, true
}
