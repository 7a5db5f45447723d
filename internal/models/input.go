package models

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// ImageFile is an uploaded cover image held in memory
type ImageFile struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// Ext returns the lowercased extension of the original file name without the dot
func (f *ImageFile) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
}

// CreateArticleInput is the validated payload of the create form
type CreateArticleInput struct {
	Title        string          `json:"title" validate:"required,min=3,max=255"`
	Excerpt      string          `json:"excerpt" validate:"max=1000"`
	CategoryID   int64           `json:"category_id" validate:"required,gt=0"`
	Lang         Lang            `json:"lang" validate:"required,oneof=ru kz"`
	Content      json.RawMessage `json:"content" validate:"richcontent"`
	Tags         []string        `json:"tags" validate:"omitempty,max=50,dive,max=64"`
	IsPublished  bool            `json:"is_published"`
	PreviewImage *ImageFile      `json:"-"`
}

// UpdateArticleInput is a sparse update; nil fields are left unchanged.
// Tags is a pointer so that an explicit empty list can be told apart from an absent one.
type UpdateArticleInput struct {
	ID               string          `json:"id" validate:"required"`
	Title            *string         `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Excerpt          *string         `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	CategoryID       *int64          `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Lang             *Lang           `json:"lang,omitempty" validate:"omitempty,oneof=ru kz"`
	Content          json.RawMessage `json:"content,omitempty" validate:"omitempty,richcontent"`
	Tags             *[]string       `json:"tags,omitempty" validate:"omitempty,max=50,dive,max=64"`
	IsPublished      *bool           `json:"is_published,omitempty"`
	UseCustomViews   *bool           `json:"use_custom_views,omitempty"`
	ViewsCountCustom NullableInt     `json:"views_count_custom"`
	PreviewImage     *ImageFile      `json:"-"`
}
