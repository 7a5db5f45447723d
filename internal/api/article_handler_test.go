package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/article-cms-api/internal/models"
)

func TestReadImage_UnreadablePartIsBadRequest(t *testing.T) {
	// a header with neither in-memory content nor a temp file cannot be opened
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		imageField: {{Filename: "cover.png", Size: 10}},
	}}

	image, err := readImage(form)

	if image != nil {
		t.Errorf("Expected no image, got %+v", image)
	}
	if code := models.ErrorCodeOf(err); code != models.CodeValidation {
		t.Errorf("Expected VALIDATION_ERROR, got %s", code)
	}
	if status := httpStatus(err); status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", status)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", models.NewAppError(models.CodeValidation, "bad", nil), http.StatusBadRequest},
		{"validation with cause", models.NewAppError(models.CodeValidation, "bad", errors.New("eof")), http.StatusBadRequest},
		{"missing file", models.NewAppError(models.CodeUpload, "no file", nil), http.StatusBadRequest},
		{"store failure", models.NewAppError(models.CodeUpload, "upload failed", errors.New("timeout")), http.StatusBadGateway},
		{"not found", models.NewAppError(models.CodeNotFound, "gone", nil), http.StatusNotFound},
		{"database", models.NewAppError(models.CodeDatabase, "db", errors.New("conn")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := httpStatus(tt.err); status != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, status)
			}
		})
	}
}
