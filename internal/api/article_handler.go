package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/service"
	"github.com/article-cms-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// imageField is the multipart field carrying the cover image
const imageField = "preview_image"

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services  *service.Services
	validator *validation.Validator
	log       zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, v *validation.Validator, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services:  services,
		validator: v,
		log:       log.With().Str("handler", "article").Logger(),
	}
}

// httpStatus maps an error code onto a response status
func httpStatus(err error) int {
	switch models.ErrorCodeOf(err) {
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeUpload:
		// a missing file is the caller's fault, a failing store is not
		if errors.Unwrap(err) == nil {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *ArticleHandler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, models.ErrorResult(err))
}

func badRequest(msg string) error {
	return models.NewAppError(models.CodeValidation, msg, nil)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// CreateArticle handles POST /v1/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	input, err := h.bindCreate(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := validation.AsAppError(h.validator.ValidateCreate(input)); err != nil {
		h.fail(c, err)
		return
	}

	article, err := h.services.Article.CreateArticle(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().Str("article_id", article.ID).Msg("Article created")
	c.JSON(http.StatusCreated, models.SuccessResult(article, "Article created"))
}

func (h *ArticleHandler) bindCreate(c *gin.Context) (*models.CreateArticleInput, error) {
	input := &models.CreateArticleInput{}

	if !isMultipart(c) {
		if err := c.ShouldBindJSON(input); err != nil {
			return nil, badRequest("invalid request body")
		}
		return input, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, badRequest("invalid multipart form")
	}
	fields := formFields(form.Value)

	input.Title = fields.str("title")
	input.Excerpt = fields.str("excerpt")
	input.Lang = models.Lang(fields.str("lang"))
	if raw, ok := fields.get("content"); ok {
		input.Content = json.RawMessage(raw)
	}
	if id, ok, err := fields.intField("category_id"); err != nil {
		return nil, err
	} else if ok {
		input.CategoryID = id
	}
	if published, ok, err := fields.boolField("is_published"); err != nil {
		return nil, err
	} else if ok {
		input.IsPublished = published
	}
	if tags, ok, err := fields.tags(); err != nil {
		return nil, err
	} else if ok {
		input.Tags = tags
	}

	input.PreviewImage, err = readImage(form)
	if err != nil {
		return nil, err
	}
	return input, nil
}

// UpdateArticle handles PATCH /v1/articles/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	input, err := h.bindUpdate(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	input.ID = c.Param("id")

	if err := validation.AsAppError(h.validator.ValidateUpdate(input)); err != nil {
		h.fail(c, err)
		return
	}

	article, err := h.services.Article.UpdateArticle(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResult(article, "Article updated"))
}

func (h *ArticleHandler) bindUpdate(c *gin.Context) (*models.UpdateArticleInput, error) {
	input := &models.UpdateArticleInput{}

	if !isMultipart(c) {
		if err := json.NewDecoder(c.Request.Body).Decode(input); err != nil && !errors.Is(err, io.EOF) {
			return nil, badRequest("invalid request body")
		}
		return input, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, badRequest("invalid multipart form")
	}
	fields := formFields(form.Value)

	if v, ok := fields.get("title"); ok {
		input.Title = &v
	}
	if v, ok := fields.get("excerpt"); ok {
		input.Excerpt = &v
	}
	if v, ok := fields.get("lang"); ok {
		lang := models.Lang(v)
		input.Lang = &lang
	}
	if v, ok := fields.get("content"); ok {
		input.Content = json.RawMessage(v)
	}
	if id, ok, err := fields.intField("category_id"); err != nil {
		return nil, err
	} else if ok {
		input.CategoryID = &id
	}
	if v, ok, err := fields.boolField("is_published"); err != nil {
		return nil, err
	} else if ok {
		input.IsPublished = &v
	}
	if v, ok, err := fields.boolField("use_custom_views"); err != nil {
		return nil, err
	} else if ok {
		input.UseCustomViews = &v
	}
	if v, ok := fields.get("views_count_custom"); ok {
		if v == "" || v == "null" {
			input.ViewsCountCustom = models.NullInt()
		} else {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, badRequest("views_count_custom must be an integer")
			}
			input.ViewsCountCustom = models.NewNullableInt(n)
		}
	}
	if tags, ok, err := fields.tags(); err != nil {
		return nil, err
	} else if ok {
		input.Tags = &tags
	}

	input.PreviewImage, err = readImage(form)
	if err != nil {
		return nil, err
	}
	return input, nil
}

// DeleteArticle handles DELETE /v1/articles/:id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Article.DeleteArticle(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResult(nil, "Article deleted"))
}

// GetArticle handles GET /v1/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.services.Article.GetArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResult(article, ""))
}

// ListArticles handles GET /v1/articles?lang=&category=&is_published=&search=
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var filter models.ArticleFilter

	if v := c.Query("lang"); v != "" {
		lang := models.Lang(v)
		if !models.ValidLangs[lang] {
			h.fail(c, badRequest("lang must be one of: ru, kz"))
			return
		}
		filter.Lang = &lang
	}
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.fail(c, badRequest("category must be an integer"))
			return
		}
		filter.CategoryID = &id
	}
	if v := c.Query("is_published"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(c, badRequest("is_published must be a boolean"))
			return
		}
		filter.IsPublished = &published
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	articles, err := h.services.Article.GetAllArticles(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResult(articles, ""))
}

// ListArticlesLight handles GET /v1/articles/light?limit=&offset=
func (h *ArticleHandler) ListArticlesLight(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		h.fail(c, err)
		return
	}

	summaries, err := h.services.Article.GetAllArticlesLight(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResult(summaries, ""))
}

// ListCategories handles GET /v1/categories
func (h *ArticleHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Article.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResult(categories, ""))
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}

// formFields reads single values out of a multipart form
type formFields map[string][]string

func (f formFields) get(key string) (string, bool) {
	values, ok := f[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (f formFields) str(key string) string {
	v, _ := f.get(key)
	return strings.TrimSpace(v)
}

func (f formFields) intField(key string) (int64, bool, error) {
	v, ok := f.get(key)
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, badRequest(fmt.Sprintf("%s must be an integer", key))
	}
	return n, true, nil
}

func (f formFields) boolField(key string) (bool, bool, error) {
	v, ok := f.get(key)
	if !ok || v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, badRequest(fmt.Sprintf("%s must be a boolean", key))
	}
	return b, true, nil
}

// tags accepts either one JSON array field or repeated plain fields
func (f formFields) tags() ([]string, bool, error) {
	values, ok := f["tags"]
	if !ok {
		return nil, false, nil
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var tags []string
		if err := json.Unmarshal([]byte(values[0]), &tags); err != nil {
			return nil, false, badRequest("tags must be a JSON array of strings")
		}
		return tags, true, nil
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			tags = append(tags, v)
		}
	}
	return tags, true, nil
}

// readImage loads the cover image part, if any, into memory
func readImage(form *multipart.Form) (*models.ImageFile, error) {
	headers := form.File[imageField]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	// an unreadable part is a broken request, not a storage failure
	file, err := header.Open()
	if err != nil {
		return nil, models.NewAppError(models.CodeValidation, "failed to read preview image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, models.NewAppError(models.CodeValidation, "failed to read preview image", err)
	}

	return &models.ImageFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
