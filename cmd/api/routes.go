package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/httpapi"
	"powerise-api/internal/metrics"
	"powerise-api/internal/rbac"
	"powerise-api/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type routerDeps struct {
	Log         *slog.Logger
	FrontendURL string
	ShowErrors  bool
	// TrustedProxies may set the client IP via X-Forwarded-For. Nil trusts none.
	TrustedProxies []string

	Verifier       auth.TokenVerifier
	Handlers       httpapi.Handlers
	Metrics        *metrics.Metrics
	InquiryLimiter *httpapi.RateLimiter
}

// newRouter wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(d routerDeps) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	// ClientIP keys the inquiry rate limiter and per-viewer view counting.
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(logger.Middleware(d.Log))
	r.Use(httpapi.Recovery(d.ShowErrors))
	r.Use(d.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", auth.AuthorizationHeader, logger.HeaderRequestID},
		ExposeHeaders:    []string{logger.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := d.Handlers
	gate := auth.RequireIDToken(d.Verifier, auth.WithRecorder(d.Metrics))
	admin := rbac.RequireAdmin(d.Metrics)

	// public
	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/api", h.APIInfo)

	api := r.Group("/api")
	{
		newsGroup := api.Group("/news")
		newsGroup.GET("/published", h.ListPublishedNews)
		newsGroup.GET("/slug/:slug", h.GetNewsBySlug)
		newsGroup.GET("", gate, admin, h.ListAllNews)
		newsGroup.POST("", gate, admin, h.CreateNews)

		inquiries := api.Group("/inquiries")
		inquiries.POST("", d.InquiryLimiter.Middleware(), h.CreateInquiry)
		inquiries.GET("", gate, admin, h.ListInquiries)

		authGroup := api.Group("/auth")
		authGroup.GET("/test", gate, h.AuthTest)
		authGroup.GET("/admin", gate, admin, h.AuthAdmin)
		authGroup.POST("/revoke/:uid", gate, admin, h.RevokeTokens)
	}

	r.NoRoute(httpapi.NotFound)
	r.NoMethod(httpapi.NotFound)
	return r, nil
}
