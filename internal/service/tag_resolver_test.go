package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/slug"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeTagRepo struct {
	bySlug    map[string]*models.Tag
	lookupErr map[string]error
	createErr map[string]error
	created   []string
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		bySlug:    map[string]*models.Tag{},
		lookupErr: map[string]error{},
		createErr: map[string]error{},
	}
}

func (r *fakeTagRepo) GetBySlug(_ context.Context, s string) (*models.Tag, error) {
	if err := r.lookupErr[s]; err != nil {
		return nil, err
	}
	return r.bySlug[s], nil
}

func (r *fakeTagRepo) Create(_ context.Context, tag *models.Tag) error {
	if err := r.createErr[tag.Slug]; err != nil {
		return err
	}
	tag.ID = fmt.Sprintf("id-%s", tag.Slug)
	r.bySlug[tag.Slug] = tag
	r.created = append(r.created, tag.Slug)
	return nil
}

func newTestResolver(repo *fakeTagRepo) (*tagResolver, *metrics.Metrics) {
	m := metrics.NewUnregistered()
	return newTagResolver(repo, slug.New("", nil), m, zerolog.Nop()), m
}

func TestTagResolver_CreatesMissingAndReusesExisting(t *testing.T) {
	repo := newFakeTagRepo()
	repo.bySlug["golang"] = &models.Tag{ID: "existing-1", Name: "golang", Slug: "golang"}
	r, _ := newTestResolver(repo)

	ids := r.Resolve(context.Background(), []string{"Golang", "New Tag"})

	assert.Equal(t, []string{"existing-1", "id-new-tag"}, ids)
	assert.Equal(t, []string{"new-tag"}, repo.created)
	assert.Equal(t, "New Tag", repo.bySlug["new-tag"].Name)
}

func TestTagResolver_DeduplicatesPreservingOrder(t *testing.T) {
	r, _ := newTestResolver(newFakeTagRepo())

	ids := r.Resolve(context.Background(), []string{"b", "a", "B", "a", " b "})

	assert.Equal(t, []string{"id-b", "id-a"}, ids)
}

func TestTagResolver_SkipsEmptySlugs(t *testing.T) {
	repo := newFakeTagRepo()
	r, _ := newTestResolver(repo)

	ids := r.Resolve(context.Background(), []string{"", "   ", "!!!", "ok"})

	assert.Equal(t, []string{"id-ok"}, ids)
	assert.Equal(t, []string{"ok"}, repo.created)
}

func TestTagResolver_FailuresAreSkipped(t *testing.T) {
	repo := newFakeTagRepo()
	repo.lookupErr["flaky"] = errors.New("timeout")
	repo.createErr["broken"] = errors.New("unique violation")
	r, m := newTestResolver(repo)

	ids := r.Resolve(context.Background(), []string{"flaky", "broken", "fine"})

	assert.Equal(t, []string{"id-fine"}, ids)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("tag_lookup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("tag_create")))
}

func TestTagResolver_NoNames(t *testing.T) {
	r, _ := newTestResolver(newFakeTagRepo())

	assert.Empty(t, r.Resolve(context.Background(), nil))
}
