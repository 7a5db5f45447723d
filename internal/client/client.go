// Package client talks to the article API over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/article-cms-api/internal/models"
	"github.com/rs/zerolog"
)

// MaxBatchSize is the largest limit GET /v1/articles/light accepts
const MaxBatchSize = 100

// Client is an HTTP client for the /v1 article endpoints
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a Client. An empty token sends anonymous requests.
func New(baseURL, token string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "client").Logger(),
	}
}

// envelope mirrors models.Result with a typed payload
type envelope[T any] struct {
	Status  models.ResultStatus `json:"status"`
	Data    T                   `json:"data"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Code    models.ErrorCode    `json:"code"`
}

// do sends a request and decodes the envelope into out. Error envelopes are
// returned as *models.AppError.
func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, out *T) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API call completed")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	if env.Status != models.StatusSuccess || resp.StatusCode >= http.StatusBadRequest {
		code := env.Code
		if code == "" {
			code = models.CodeInternal
		}
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return models.NewAppError(code, msg, nil)
	}

	if out != nil {
		*out = env.Data
	}
	return nil
}

// FetchSummaries loads one page of the light listing
func (c *Client) FetchSummaries(ctx context.Context, limit, offset int) ([]models.ArticleSummary, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var summaries []models.ArticleSummary
	if err := do(ctx, c, http.MethodGet, "/v1/articles/light", query, &summaries); err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.ArticleSummary{}
	}
	return summaries, nil
}

// GetArticle loads one article with its tags
func (c *Client) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := do(ctx, c, http.MethodGet, "/v1/articles/"+url.PathEscape(id), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes an article owned by the token's user
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	var ignored json.RawMessage
	return do(ctx, c, http.MethodDelete, "/v1/articles/"+url.PathEscape(id), nil, &ignored)
}
