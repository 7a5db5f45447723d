package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret", "article-cms")

	token, err := v.Issue("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", "article-cms")

	expired, err := v.Issue("user-1", -time.Minute)
	require.NoError(t, err)

	otherIssuer, err := NewVerifier("secret", "someone-else").Issue("user-1", time.Hour)
	require.NoError(t, err)

	wrongKey, err := NewVerifier("other-secret", "article-cms").Issue("user-1", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "article-cms"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"wrong key", wrongKey, ErrInvalidToken},
		{"wrong issuer", otherIssuer, ErrInvalidIssuer},
		{"no subject", noSubject, ErrNoSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestContextIdentity(t *testing.T) {
	var id ContextIdentity

	_, ok := id.UserID(context.Background())
	assert.False(t, ok)

	userID, ok := id.UserID(WithUserID(context.Background(), "user-7"))
	assert.True(t, ok)
	assert.Equal(t, "user-7", userID)

	_, ok = id.UserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}

func newTestRouter(v *Verifier) *gin.Engine {
	r := gin.New()
	r.Use(Middleware(v, zerolog.Nop()))
	r.GET("/whoami", func(c *gin.Context) {
		userID, ok := UserIDFromContext(c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier("secret", "")
	token, err := v.Issue("user-42", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer " + token, http.StatusOK, "user-42"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Bearer scheme"},
	}

	router := newTestRouter(v)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
