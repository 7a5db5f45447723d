// Package slug derives URL-safe identifiers from article titles and tag names.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
	"github.com/google/uuid"
)

// UUIDFunc returns a fresh random UUID; uuid.New in production
type UUIDFunc func() uuid.UUID

// Generator builds slugs for a fixed transliteration locale
type Generator struct {
	lang    string
	newUUID UUIDFunc
}

// New creates a Generator. lang is a locale code ("ru", "kz"); newUUID may be nil.
func New(lang string, newUUID UUIDFunc) *Generator {
	if newUUID == nil {
		newUUID = uuid.New
	}
	return &Generator{lang: lang, newUUID: newUUID}
}

// Normalize transliterates s into a lowercase dash-separated slug without a random suffix.
// The same input always produces the same output.
func (g *Generator) Normalize(s string) string {
	return gosimple.MakeLang(s, substitutionLang(g.lang))
}

// Generate returns Normalize(title) followed by "_" and the first segment of a fresh UUID
func (g *Generator) Generate(title string) string {
	suffix := strings.SplitN(g.newUUID().String(), "-", 2)[0]
	base := g.Normalize(title)
	if base == "" {
		return suffix
	}
	return base + "_" + suffix
}

// substitutionLang maps article locales onto the substitution tables of the slug library.
// Russian has no dedicated table; Cyrillic is handled by the generic transliteration.
func substitutionLang(lang string) string {
	switch strings.ToLower(lang) {
	case "kz", "kk":
		return "kk"
	default:
		return "en"
	}
}
