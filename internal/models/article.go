package models

import (
	"encoding/json"
	"time"
)

// Lang is the language an article is written in
type Lang string

const (
	LangRU Lang = "ru"
	LangKZ Lang = "kz"
)

// ValidLangs defines allowed article languages
var ValidLangs = map[Lang]bool{
	LangRU: true,
	LangKZ: true,
}

// Article represents an article in the system
type Article struct {
	ID               string          `json:"id" db:"id"`
	Title            string          `json:"title" db:"title"`
	Slug             string          `json:"slug" db:"slug"`
	Excerpt          *string         `json:"excerpt" db:"excerpt"`
	CategoryID       int64           `json:"category_id" db:"category_id"`
	Lang             Lang            `json:"lang" db:"lang"`
	Content          json.RawMessage `json:"content" db:"content"`
	PreviewImage     *string         `json:"preview_image" db:"preview_image"`
	AuthorID         string          `json:"author_id" db:"author_id"`
	IsPublished      bool            `json:"is_published" db:"is_published"`
	PublishedAt      *time.Time      `json:"published_at" db:"published_at"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
	UseCustomViews   bool            `json:"use_custom_views" db:"use_custom_views"`
	ViewsCountCustom *int64          `json:"views_count_custom" db:"views_count_custom"`

	// Joined at read time
	ViewsCount int64     `json:"views_count" db:"-"`
	Category   *Category `json:"category,omitempty" db:"-"`
	Tags       []Tag     `json:"tags" db:"-"`
}

// DisplayedViews returns the view count shown to readers
func (a *Article) DisplayedViews() int64 {
	if a.UseCustomViews && a.ViewsCountCustom != nil {
		return *a.ViewsCountCustom
	}
	return a.ViewsCount
}

// HasPreviewImage reports whether a cover image URL is stored
func (a *Article) HasPreviewImage() bool {
	return a.PreviewImage != nil && *a.PreviewImage != ""
}

// ArticleSummary is the reduced projection served to paginated listings
type ArticleSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Lang         Lang       `json:"lang"`
	CategoryName string     `json:"category_name,omitempty"`
	IsPublished  bool       `json:"is_published"`
	PublishedAt  *time.Time `json:"published_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Views        int64      `json:"views"`
}

// ArticleFilter holds optional listing filters; nil fields are not applied
type ArticleFilter struct {
	Lang        *Lang
	CategoryID  *int64
	IsPublished *bool
	Search      string
}

// ArticleChanges is a sparse set of column updates applied in a single statement.
// Nil pointers and unset Nullable values leave the column untouched.
type ArticleChanges struct {
	Title            *string
	Slug             *string
	Excerpt          NullableString
	CategoryID       *int64
	Lang             *Lang
	Content          json.RawMessage
	PreviewImage     *string
	IsPublished      *bool
	PublishedAt      NullableTime
	UseCustomViews   *bool
	ViewsCountCustom NullableInt
	UpdatedAt        time.Time
}
