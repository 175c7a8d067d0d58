package auth

import (
	"errors"
	"net/http"
	"time"

	"powerise-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OutcomeRecorder observes gate decisions. stage is "authenticate" or
// "authorize"; result is "ok" or an error Kind.
type OutcomeRecorder interface {
	RecordAuthOutcome(stage, result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthOutcome(string, string) {}

type gateOptions struct {
	recorder OutcomeRecorder
	now      func() time.Time
}

type Option func(*gateOptions)

func WithRecorder(r OutcomeRecorder) Option {
	return func(o *gateOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

func newGateOptions(opts []Option) gateOptions {
	o := gateOptions{recorder: nopRecorder{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RequireIDToken verifies the bearer ID token and injects the identity into the
// request context. It does not check claims; that belongs to internal/rbac.
func RequireIDToken(v TokenVerifier, opts ...Option) gin.HandlerFunc {
	o := newGateOptions(opts)
	return func(c *gin.Context) {
		id, err := Authenticate(c.Request.Context(), c.Request.Header, v)
		if err != nil {
			var ae *AuthError
			if errors.As(err, &ae) {
				o.recorder.RecordAuthOutcome("authenticate", string(ae.Kind))
				if ae.Err != nil {
					logger.FromGin(c).Warn("token rejected", "kind", ae.Kind, "err", ae.Err)
				}
			} else {
				o.recorder.RecordAuthOutcome("authenticate", "error")
			}
			abortWithError(c, err, o.now)
			return
		}
		o.recorder.RecordAuthOutcome("authenticate", "ok")

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Set(logger.UIDKey, id.UID)
		logger.FromGin(c).Debug("user authenticated", "uid", id.UID)

		c.Next()
	}
}

// ErrorBody is the JSON shape of gate rejections.
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AbortWithError writes the response for a gate failure and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	abortWithError(c, err, time.Now)
}

func abortWithError(c *gin.Context, err error, now func() time.Time) {
	ts := now().UTC().Format(time.RFC3339Nano)

	var ae *AuthError
	if errors.As(err, &ae) {
		status := http.StatusForbidden
		if ae.Outcome() == Unauthorized {
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, ErrorBody{
			Error:     ae.Outcome().String(),
			Code:      string(ae.Kind),
			Message:   ae.Message(),
			Timestamp: ts,
		})
		return
	}

	_ = c.Error(err)
	msg := "Failed to verify credentials"
	if errors.Is(err, ErrVerifierUnavailable) {
		msg = "Identity provider not initialized"
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
		Error:     "Internal Server Error",
		Message:   msg,
		Timestamp: ts,
	})
}
