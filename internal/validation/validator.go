// Package validation checks article form input before it reaches the services.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/article-cms-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator validates article inputs with struct tags and custom rules
type Validator struct {
	validate     *validator.Validate
	maxImageSize int64
}

// NewValidator creates a validator. Images larger than maxImageSize bytes are rejected.
func NewValidator(maxImageSize int64) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("richcontent", func(fl validator.FieldLevel) bool {
		return HasContent(fl.Field().Bytes())
	})

	return &Validator{validate: v, maxImageSize: maxImageSize}
}

// HasContent reports whether a rich content document has at least one
// top-level node with non-empty children
func HasContent(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var doc struct {
		Content []struct {
			Content []json.RawMessage `json:"content"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for _, node := range doc.Content {
		if len(node.Content) > 0 {
			return true
		}
	}
	return false
}

// ValidateCreate validates a create form
func (v *Validator) ValidateCreate(input *models.CreateArticleInput) []ValidationError {
	errs := v.validateStruct(input)
	return append(errs, v.validateImage(input.PreviewImage)...)
}

// ValidateUpdate validates a sparse update; absent fields are not checked
func (v *Validator) ValidateUpdate(input *models.UpdateArticleInput) []ValidationError {
	errs := v.validateStruct(input)
	if input.ViewsCountCustom.Value != nil && *input.ViewsCountCustom.Value < 0 {
		errs = append(errs, ValidationError{
			Field:   "views_count_custom",
			Message: "views_count_custom must not be negative",
			Value:   *input.ViewsCountCustom.Value,
		})
	}
	return append(errs, v.validateImage(input.PreviewImage)...)
}

func (v *Validator) validateImage(file *models.ImageFile) []ValidationError {
	if file == nil {
		return nil
	}
	var errs []ValidationError
	if file.Size > v.maxImageSize || int64(len(file.Data)) > v.maxImageSize {
		errs = append(errs, ValidationError{
			Field:   "preview_image",
			Message: fmt.Sprintf("image must not exceed %d bytes", v.maxImageSize),
			Value:   file.Size,
		})
	}
	if file.ContentType != "" && !strings.HasPrefix(file.ContentType, "image/") {
		errs = append(errs, ValidationError{
			Field:   "preview_image",
			Message: "file must be an image",
			Value:   file.ContentType,
		})
	}
	return errs
}

func (v *Validator) validateStruct(s interface{}) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "unknown", Message: err.Error()}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fieldName(fe),
			Message: translateError(fe),
			Value:   displayValue(fe),
		})
	}
	return errs
}

// fieldName returns the JSON path without the root struct name
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// displayValue keeps error payloads small: documents and lists are not echoed back
func displayValue(fe validator.FieldError) interface{} {
	switch fe.Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct:
		return nil
	}
	return fe.Value()
}

func translateError(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "richcontent":
		return fmt.Sprintf("%s must not be empty", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// AsAppError joins errs into a single VALIDATION_ERROR, or returns nil when errs is empty
func AsAppError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return models.NewAppError(models.CodeValidation, strings.Join(messages, "; "), nil)
}
