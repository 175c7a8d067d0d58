package httpapi

import (
	"errors"
	"net/http"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/news"
	"powerise-api/internal/validate"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
	Details []validate.Issue `json:"details,omitempty"`
}

// errorBody is the shape used for routing and recovery failures.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func timestamp() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

// Error labels for 400 responses.
const (
	labelQuery = "Invalid query parameters"
	labelBody  = "Validation error"
)

// respondError maps service and validation errors onto status codes.
// label names the 400 flavour; it is ignored for other errors.
func respondError(c *gin.Context, err error, label string) {
	var ve *validate.Error
	var ae *auth.AuthError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: label, Details: ve.Issues})
	case errors.As(err, &ae):
		auth.AbortWithError(c, err)
	case errors.Is(err, news.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, envelope{Error: "News article not found"})
	case errors.Is(err, news.ErrSlugTaken):
		c.AbortWithStatusJSON(http.StatusConflict, envelope{Error: "News article with this slug already exists"})
	case errors.Is(err, news.ErrInvalidPublishedAt):
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: labelBody, Details: []validate.Issue{{
			Field: "publishedAt", Code: validate.CodeInvalidFormat, Message: "must be an RFC 3339 timestamp",
		}}})
	default:
		// logged with full detail by logger.Middleware
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Error: "Internal server error"})
	}
}
