package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableInt_UnmarshalJSON(t *testing.T) {
	var in struct {
		Views NullableInt `json:"views_count_custom"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))
	assert.False(t, in.Views.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"views_count_custom":null}`), &in))
	assert.True(t, in.Views.Set)
	assert.Nil(t, in.Views.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"views_count_custom":250}`), &in))
	assert.True(t, in.Views.Set)
	require.NotNil(t, in.Views.Value)
	assert.Equal(t, int64(250), *in.Views.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"views_count_custom":"many"}`), &in))
}

func TestNewNullableString_EmptyIsNull(t *testing.T) {
	n := NewNullableString("")
	assert.True(t, n.Set)
	assert.Nil(t, n.Value)

	n = NewNullableString("text")
	require.NotNil(t, n.Value)
	assert.Equal(t, "text", *n.Value)
}

func TestDisplayedViews(t *testing.T) {
	custom := int64(999)

	tests := []struct {
		name    string
		article Article
		want    int64
	}{
		{"real views", Article{ViewsCount: 12}, 12},
		{"custom flag without value", Article{ViewsCount: 12, UseCustomViews: true}, 12},
		{"custom value without flag", Article{ViewsCount: 12, ViewsCountCustom: &custom}, 12},
		{"custom", Article{ViewsCount: 12, UseCustomViews: true, ViewsCountCustom: &custom}, 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.article.DisplayedViews())
		})
	}
}

func TestImageFile_Ext(t *testing.T) {
	assert.Equal(t, "jpg", (&ImageFile{Name: "Cover.JPG"}).Ext())
	assert.Equal(t, "", (&ImageFile{Name: "cover"}).Ext())
	assert.Equal(t, "gz", (&ImageFile{Name: "archive.tar.gz"}).Ext())
}

func TestErrorResult(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewAppError(CodeDatabase, "failed to load article", cause)

	result := ErrorResult(fmt.Errorf("wrapped: %w", appErr))
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, CodeDatabase, result.Code)
	assert.Equal(t, "failed to load article", result.Error, "causes are not exposed to clients")
	assert.ErrorIs(t, appErr, cause)

	result = ErrorResult(errors.New("boom"))
	assert.Equal(t, CodeInternal, result.Code)
	assert.Equal(t, CodeInternal, ErrorCodeOf(errors.New("boom")))
}
