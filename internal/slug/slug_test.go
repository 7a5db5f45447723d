package slug

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fixedUUIDs(ids ...string) UUIDFunc {
	i := 0
	return func() uuid.UUID {
		id := uuid.MustParse(ids[i%len(ids)])
		i++
		return id
	}
}

func TestGenerate_AppendsFirstUUIDSegment(t *testing.T) {
	g := New("ru", fixedUUIDs("1a2b3c4d-0000-4000-8000-000000000000"))

	assert.Equal(t, "hello-world_1a2b3c4d", g.Generate("Hello, World!"))
}

func TestGenerate_Cyrillic(t *testing.T) {
	g := New("ru", fixedUUIDs("deadbeef-0000-4000-8000-000000000000"))

	assert.Equal(t, "privet-mir_deadbeef", g.Generate("Привет, мир"))
}

func TestGenerate_IdenticalTitlesDiffer(t *testing.T) {
	g := New("ru", nil)

	a := g.Generate("Same title")
	b := g.Generate("Same title")

	assert.NotEqual(t, a, b)
	pattern := regexp.MustCompile(`^same-title_[0-9a-f]{8}$`)
	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
}

func TestGenerate_EmptyBase(t *testing.T) {
	g := New("ru", fixedUUIDs("00c0ffee-0000-4000-8000-000000000000"))

	assert.Equal(t, "00c0ffee", g.Generate("!!!"))
}

func TestNormalize(t *testing.T) {
	g := New("ru", nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "News", "news"},
		{"collapses separators", "  breaking   --  news ", "breaking-news"},
		{"strips punctuation", "sport*(2024)!", "sport-2024"},
		{"transliterates", "Спорт", "sport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Normalize(tt.in))
		})
	}
}

func TestNormalize_Stable(t *testing.T) {
	g := New("kz", nil)

	assert.Equal(t, g.Normalize("Қазақстан жаңалықтары"), g.Normalize("Қазақстан жаңалықтары"))
	assert.NotEmpty(t, g.Normalize("Қазақстан"))
}
