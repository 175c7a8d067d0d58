package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"powerise-api/internal/audit"
	"powerise-api/internal/auth"
	"powerise-api/internal/config"
	"powerise-api/internal/firebase"
	"powerise-api/internal/httpapi"
	"powerise-api/internal/inquiry"
	"powerise-api/internal/metrics"
	"powerise-api/internal/news"
	"powerise-api/internal/validate"
	"powerise-api/pkg/logger"
	"powerise-api/pkg/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validate.UseJSONFieldNames()

	var health []httpapi.HealthCheck

	// Redis is optional: revocation marks and per-viewer view counting.
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = storage.OpenRedis(rootCtx, storage.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		health = append(health, httpapi.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return storage.RedisHealthCheck(ctx, rdb, time.Second)
		}})
	}

	var (
		revocations auth.RevocationChecker
		revoker     httpapi.TokenRevoker
	)
	if rdb != nil {
		rr := auth.NewRedisRevocations(rdb)
		revocations, revoker = rr, rr
	}

	verifier, err := newVerifier(cfg, log, revocations)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	stores, err := openStores(rootCtx, cfg)
	if err != nil {
		log.Error("store init failed", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	if db := stores.db; db != nil {
		defer db.Close()
		health = append(health, httpapi.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return storage.HealthCheck(ctx, db, time.Second)
		}})
	}

	var views news.ViewPolicy = news.CountEveryRead{}
	if cfg.Views.Policy == config.ViewPolicyOncePerViewer {
		views = news.NewOncePerViewer(rdb, cfg.Views.DedupeWindow)
	}

	limiter := httpapi.NewRateLimiter(cfg.Inquiry.RateLimitRPS, cfg.Inquiry.RateBurst)
	go sweepLimiter(rootCtx, limiter)

	r, err := newRouter(routerDeps{
		Log:            log,
		FrontendURL:    cfg.App.FrontendURL,
		ShowErrors:     cfg.IsDevelopment(),
		TrustedProxies: cfg.App.TrustedProxies,
		Verifier:       verifier,
		Handlers: httpapi.Handlers{
			News:      news.NewService(stores.news, views),
			Inquiries: inquiry.NewService(stores.inquiries),
			Audit:     audit.NewService(stores.audit),
			Revoker:   revoker,
			Env:       cfg.App.Env,
			Health:    health,
		},
		Metrics:        metrics.New(),
		InquiryLimiter: limiter,
	})
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env,
			"auth_provider", cfg.Auth.Provider, "store", cfg.Store.Driver, "view_policy", cfg.Views.Policy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func newVerifier(cfg config.Config, log *slog.Logger, rc auth.RevocationChecker) (auth.TokenVerifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderLocal:
		l, err := auth.NewLocalIssuer(cfg.Auth)
		if err != nil {
			return nil, err
		}
		log.Warn("using local token issuer; not for production")
		return l.WithRevocations(rc), nil
	default:
		return firebase.NewVerifier(cfg.Auth, log, firebase.WithRevocations(rc))
	}
}

type storeSet struct {
	news      news.Repository
	inquiries inquiry.Repository
	audit     audit.Repository
	db        *sql.DB
}

func openStores(ctx context.Context, cfg config.Config) (storeSet, error) {
	if cfg.Store.Driver != config.StoreDriverPostgres {
		now := time.Now()
		return storeSet{
			news:      news.NewMemoryRepo(news.Seed(now)...),
			inquiries: inquiry.NewMemoryRepo(inquiry.Seed(now)...),
			audit:     audit.NewMemoryRepo(),
		}, nil
	}

	db, err := storage.OpenPostgres(ctx, storage.PostgresDriver, cfg.PostgresDSN(), storage.PostgresPoolConfig{})
	if err != nil {
		return storeSet{}, err
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return storeSet{}, fmt.Errorf("ensure schema: %w", err)
	}
	return storeSet{
		news:      news.NewPostgresRepo(db),
		inquiries: inquiry.NewPostgresRepo(db),
		audit:     audit.NewPostgresRepo(db),
		db:        db,
	}, nil
}

func sweepLimiter(ctx context.Context, rl *httpapi.RateLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Cleanup()
		}
	}
}
