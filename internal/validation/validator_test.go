package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/article-cms-api/internal/models"
)

const maxImage = 5 * 1024 * 1024

var validContent = json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}]}`)

func validCreate() *models.CreateArticleInput {
	return &models.CreateArticleInput{
		Title:      "Valid title",
		CategoryID: 1,
		Lang:       models.LangRU,
		Content:    validContent,
		Tags:       []string{"go"},
		PreviewImage: &models.ImageFile{
			Name: "cover.jpg", Size: 1024, ContentType: "image/jpeg", Data: make([]byte, 1024),
		},
	}
}

func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateCreate(t *testing.T) {
	v := NewValidator(maxImage)

	tests := []struct {
		name       string
		mutate     func(in *models.CreateArticleInput)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid input",
			mutate:     func(in *models.CreateArticleInput) {},
			wantErrors: 0,
		},
		{
			name:       "title too short",
			mutate:     func(in *models.CreateArticleInput) { in.Title = "Go" },
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "missing title",
			mutate:     func(in *models.CreateArticleInput) { in.Title = "" },
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "missing category",
			mutate:     func(in *models.CreateArticleInput) { in.CategoryID = 0 },
			wantErrors: 1,
			wantFields: []string{"category_id"},
		},
		{
			name:       "unknown language",
			mutate:     func(in *models.CreateArticleInput) { in.Lang = "en" },
			wantErrors: 1,
			wantFields: []string{"lang"},
		},
		{
			name:       "empty document",
			mutate:     func(in *models.CreateArticleInput) { in.Content = json.RawMessage(`{"type":"doc","content":[{"type":"paragraph"}]}`) },
			wantErrors: 1,
			wantFields: []string{"content"},
		},
		{
			name:       "missing document",
			mutate:     func(in *models.CreateArticleInput) { in.Content = nil },
			wantErrors: 1,
			wantFields: []string{"content"},
		},
		{
			name:       "tag too long",
			mutate:     func(in *models.CreateArticleInput) { in.Tags = []string{strings.Repeat("x", 65)} },
			wantErrors: 1,
			wantFields: []string{"tags[0]"},
		},
		{
			name: "image too large",
			mutate: func(in *models.CreateArticleInput) {
				in.PreviewImage.Size = maxImage + 1
			},
			wantErrors: 1,
			wantFields: []string{"preview_image"},
		},
		{
			name:       "not an image",
			mutate:     func(in *models.CreateArticleInput) { in.PreviewImage.ContentType = "application/pdf" },
			wantErrors: 1,
			wantFields: []string{"preview_image"},
		},
		{
			name: "multiple errors",
			mutate: func(in *models.CreateArticleInput) {
				in.Title = ""
				in.Lang = ""
			},
			wantErrors: 2,
			wantFields: []string{"title", "lang"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.mutate(in)

			errs := v.ValidateCreate(in)
			if len(errs) != tt.wantErrors {
				t.Fatalf("expected %d errors, got %d: %+v", tt.wantErrors, len(errs), errs)
			}

			got := fields(errs)
			for _, want := range tt.wantFields {
				found := false
				for _, f := range got {
					if f == want {
						found = true
					}
				}
				if !found {
					t.Errorf("expected error on field %q, got %v", want, got)
				}
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewValidator(maxImage)

	short := "ab"
	badLang := models.Lang("de")
	emptyTags := []string{}

	if errs := v.ValidateUpdate(&models.UpdateArticleInput{ID: "a-1"}); len(errs) != 0 {
		t.Errorf("empty update should be valid, got %+v", errs)
	}
	if errs := v.ValidateUpdate(&models.UpdateArticleInput{ID: "a-1", Tags: &emptyTags}); len(errs) != 0 {
		t.Errorf("empty tag list should be valid, got %+v", errs)
	}
	if errs := v.ValidateUpdate(&models.UpdateArticleInput{ID: "a-1", ViewsCountCustom: models.NullInt()}); len(errs) != 0 {
		t.Errorf("explicit null views should be valid, got %+v", errs)
	}

	errs := v.ValidateUpdate(&models.UpdateArticleInput{
		ID:               "a-1",
		Title:            &short,
		Lang:             &badLang,
		ViewsCountCustom: models.NewNullableInt(-1),
	})
	got := strings.Join(fields(errs), ",")
	for _, want := range []string{"title", "lang", "views_count_custom"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected error on %s, got %s", want, got)
		}
	}

	if errs := v.ValidateUpdate(&models.UpdateArticleInput{}); len(errs) != 1 || errs[0].Field != "id" {
		t.Errorf("expected missing id error, got %+v", errs)
	}
}

func TestHasContent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"paragraph with text", string(validContent), true},
		{"empty paragraph", `{"type":"doc","content":[{"type":"paragraph"}]}`, false},
		{"paragraph with empty children", `{"type":"doc","content":[{"type":"paragraph","content":[]}]}`, false},
		{"second node has text", `{"content":[{"type":"paragraph"},{"type":"heading","content":[{"text":"x"}]}]}`, true},
		{"no content key", `{"type":"doc"}`, false},
		{"not json", `<p>hi</p>`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasContent(json.RawMessage(tt.doc)); got != tt.want {
				t.Errorf("HasContent(%s) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	if err := AsAppError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err := AsAppError([]ValidationError{
		{Field: "title", Message: "title is required"},
		{Field: "lang", Message: "lang must be one of: ru, kz"},
	})
	if models.ErrorCodeOf(err) != models.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", models.ErrorCodeOf(err))
	}
	if !strings.Contains(err.Error(), "title is required; lang must be one of: ru, kz") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func BenchmarkValidateCreate(b *testing.B) {
	v := NewValidator(maxImage)
	input := validCreate()
	input.Tags = []string{"go", "web", "databases"}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v.ValidateCreate(input)
	}
}
