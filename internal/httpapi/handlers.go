package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"powerise-api/internal/audit"
	"powerise-api/internal/auth"
	"powerise-api/internal/inquiry"
	"powerise-api/internal/news"
	"powerise-api/internal/query"
	"powerise-api/internal/validate"
	"powerise-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// TokenRevoker invalidates every token of uid whose session started before at.
type TokenRevoker interface {
	RevokeTokens(ctx context.Context, uid string, at time.Time) error
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	News      *news.Service
	Inquiries *inquiry.Service
	Audit     *audit.Service
	// Revoker is nil when no revocation store is configured.
	Revoker TokenRevoker

	Env    string
	Health []HealthCheck
}

// --- News ---

func (h Handlers) ListPublishedNews(c *gin.Context) {
	p, err := query.ParseParams(c.Request.URL.Query(), news.Schema)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	res, err := h.News.ListPublished(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	ok(c, http.StatusOK, res, "")
}

func (h Handlers) GetNewsBySlug(c *gin.Context) {
	n, err := h.News.GetBySlug(c.Request.Context(), c.Param("slug"), c.ClientIP())
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	ok(c, http.StatusOK, n, "")
}

// ListAllNews is the admin listing; every status is visible.
func (h Handlers) ListAllNews(c *gin.Context) {
	p, err := query.ParseParams(c.Request.URL.Query(), news.Schema)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	res, err := h.News.ListAll(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	ok(c, http.StatusOK, res, "")
}

func (h Handlers) CreateNews(c *gin.Context) {
	var req news.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validate.FromBind(err), labelBody)
		return
	}

	id, _ := auth.FromContext(c.Request.Context())
	n, err := h.News.Create(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, labelBody)
		return
	}

	if h.Audit != nil && id != nil {
		if err := h.Audit.LogAdminAction(c.Request.Context(), id.UID, id.Email, c.ClientIP(),
			audit.ActionNewsCreate, n.ID, "created "+n.Slug); err != nil {
			logger.FromGin(c).Warn("audit append failed", "action", audit.ActionNewsCreate, "err", err)
		}
	}
	ok(c, http.StatusCreated, n, "News article created successfully")
}

// --- Inquiries ---

const inquiryReceived = "お問い合わせを受け付けました。担当者よりご連絡いたします。"

func (h Handlers) CreateInquiry(c *gin.Context) {
	var req inquiry.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validate.FromBind(err), labelBody)
		return
	}
	i, err := h.Inquiries.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, labelBody)
		return
	}
	logger.FromGin(c).Info("inquiry received", "inquiry_id", i.ID, "category", i.Category)
	ok(c, http.StatusCreated, i, inquiryReceived)
}

func (h Handlers) ListInquiries(c *gin.Context) {
	p, err := query.ParseParams(c.Request.URL.Query(), inquiry.Schema)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	res, err := h.Inquiries.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, labelQuery)
		return
	}
	ok(c, http.StatusOK, res, "")
}

// --- Auth probes ---

func (h Handlers) AuthTest(c *gin.Context) {
	id, found := auth.FromContext(c.Request.Context())
	if !found {
		auth.AbortWithError(c, &auth.AuthError{Kind: auth.KindNotAuthenticated})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful",
		"user": gin.H{
			"uid":           id.UID,
			"email":         id.Email,
			"emailVerified": id.EmailVerified,
		},
		"timestamp": timestamp(),
	})
}

func (h Handlers) AuthAdmin(c *gin.Context) {
	id, found := auth.FromContext(c.Request.Context())
	if !found {
		auth.AbortWithError(c, &auth.AuthError{Kind: auth.KindNotAuthenticated})
		return
	}
	admin, _ := id.Claim("admin")
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin access successful",
		"user": gin.H{
			"uid":   id.UID,
			"email": id.Email,
			"admin": admin,
		},
		"timestamp": timestamp(),
	})
}

// RevokeTokens signs a user out everywhere: tokens whose auth_time precedes
// now are rejected as revoked from here on.
func (h Handlers) RevokeTokens(c *gin.Context) {
	if h.Revoker == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, envelope{Error: "Token revocation is not configured"})
		return
	}
	uid := strings.TrimSpace(c.Param("uid"))
	if uid == "" || len(uid) > 128 {
		respondError(c, &validate.Error{Issues: []validate.Issue{{
			Field: "uid", Code: validate.CodeInvalidFormat, Message: "must be 1 to 128 characters",
		}}}, labelBody)
		return
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := h.Revoker.RevokeTokens(c.Request.Context(), uid, at); err != nil {
		respondError(c, fmt.Errorf("revoke tokens: %w", err), labelBody)
		return
	}

	id, _ := auth.FromContext(c.Request.Context())
	if h.Audit != nil && id != nil {
		if err := h.Audit.LogAdminAction(c.Request.Context(), id.UID, id.Email, c.ClientIP(),
			audit.ActionAuthRevoke, uid, "revoked tokens issued before "+at.Format(time.RFC3339)); err != nil {
			logger.FromGin(c).Warn("audit append failed", "action", audit.ActionAuthRevoke, "err", err)
		}
	}
	logger.FromGin(c).Info("tokens revoked", "target_uid", uid)
	ok(c, http.StatusOK, gin.H{"uid": uid, "revokedAt": at}, "Tokens revoked")
}

// --- Service info ---

func (h Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	deps := gin.H{}
	for _, hc := range h.Health {
		if err := hc.Check(ctx); err != nil {
			logger.FromGin(c).Warn("health check failed", "dependency", hc.Name, "err", err)
			deps[hc.Name] = "not connected"
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[hc.Name] = "connected"
	}

	c.JSON(code, gin.H{
		"status":       status,
		"message":      "Powerise API Server is running",
		"timestamp":    timestamp(),
		"environment":  h.Env,
		"dependencies": deps,
	})
}

func (h Handlers) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Powerise API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":  "/health",
			"metrics": "/metrics",
			"auth": gin.H{
				"test":   "/api/auth/test (requires authentication)",
				"admin":  "/api/auth/admin (requires admin privileges)",
				"revoke": "POST /api/auth/revoke/:uid (admin only)",
			},
			"news": gin.H{
				"published": "/api/news/published (public)",
				"bySlug":    "/api/news/slug/:slug (public)",
				"admin":     "/api/news (admin only)",
				"create":    "POST /api/news (admin only)",
			},
			"inquiries": gin.H{
				"create": "POST /api/inquiries (public)",
				"list":   "/api/inquiries (admin only)",
			},
		},
	})
}

// NotFound answers unmatched routes and methods.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody{
		Error:     "Not Found",
		Message:   "Route " + c.Request.URL.RequestURI() + " not found",
		Timestamp: timestamp(),
	})
}

// Recovery turns panics into a 500. Detail is exposed only when showDetail is set.
func Recovery(showDetail bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromGin(c).Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		msg := "Something went wrong"
		if showDetail {
			if err, isErr := recovered.(error); isErr {
				msg = err.Error()
			} else if s, isStr := recovered.(string); isStr {
				msg = s
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
			Error:     "Internal Server Error",
			Message:   msg,
			Timestamp: timestamp(),
		})
	})
}
