package auth

import (
	"net/http"
	"strings"

	"github.com/article-cms-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Middleware attaches the bearer token's user id to the request context.
// Requests without a token pass through anonymously; write operations reject
// them further down. A present but invalid token is rejected here.
func Middleware(v *Verifier, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "auth").Logger()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abortUnauthorized(c, "authorization header must use the Bearer scheme")
			return
		}

		userID, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected bearer token")
			abortUnauthorized(c, "invalid bearer token")
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResult(
		models.NewAppError(models.CodeUnauthorized, msg, nil),
	))
}
