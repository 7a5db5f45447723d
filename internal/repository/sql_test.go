package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/article-cms-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildFilter(t *testing.T) {
	kz := models.LangKZ
	category := int64(4)
	published := false

	tests := []struct {
		name     string
		filter   models.ArticleFilter
		where    string
		expected []interface{}
	}{
		{
			name:   "no filters",
			filter: models.ArticleFilter{Search: "   "},
			where:  "",
		},
		{
			name:     "lang only",
			filter:   models.ArticleFilter{Lang: &kz},
			where:    " WHERE a.lang = $1",
			expected: []interface{}{"kz"},
		},
		{
			name:     "all filters",
			filter:   models.ArticleFilter{Lang: &kz, CategoryID: &category, IsPublished: &published, Search: " go "},
			where:    ` WHERE a.lang = $1 AND a.category_id = $2 AND a.is_published = $3 AND a.title ILIKE $4 ESCAPE '\'`,
			expected: []interface{}{"kz", int64(4), false, "%go%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildFilter(tt.filter)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%hello%", likePattern("hello"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}

func TestBuildUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("only updated_at", func(t *testing.T) {
		set, args := buildUpdate(models.ArticleChanges{UpdatedAt: now})
		assert.Equal(t, "updated_at = $1", set)
		assert.Equal(t, []interface{}{now}, args)
	})

	t.Run("sparse with nulls", func(t *testing.T) {
		title := "T"
		published := true
		set, args := buildUpdate(models.ArticleChanges{
			Title:            &title,
			Excerpt:          models.NullableString{Set: true},
			Content:          json.RawMessage(`{"type":"doc"}`),
			IsPublished:      &published,
			PublishedAt:      models.NewNullableTime(now),
			ViewsCountCustom: models.NullInt(),
			UpdatedAt:        now,
		})

		assert.Equal(t,
			"title = $1, excerpt = $2, content = $3, is_published = $4, published_at = $5, views_count_custom = $6, updated_at = $7",
			set)
		assert.Len(t, args, 7)
		assert.Equal(t, "T", args[0])
		assert.Nil(t, args[1].(*string))
		assert.Equal(t, `{"type":"doc"}`, args[2])
		assert.Equal(t, true, args[3])
		assert.Equal(t, now, *args[4].(*time.Time))
		assert.Nil(t, args[5].(*int64))
		assert.Equal(t, now, args[6])
	})
}
