package models

// Tag is a shared label that articles reference through ArticleTag rows
type Tag struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// ArticleTag is the membership row between an article and a tag
type ArticleTag struct {
	ArticleID string `json:"article_id" db:"article_id"`
	TagID     string `json:"tag_id" db:"tag_id"`
}

// Category groups articles; categories are managed outside this service
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}
