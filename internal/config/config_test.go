package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"APP_ENV", "APP_PORT", "FIREBASE_PROJECT_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err.Error())
		}
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8000},
		Auth: AuthConfig{Provider: AuthProviderLocal, LocalSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Store.Driver != StoreDriverMemory {
		t.Fatalf("expected memory store default, got %q", c.Store.Driver)
	}
	if c.Views.Policy != ViewPolicyEveryRead {
		t.Fatalf("expected every_read default, got %q", c.Views.Policy)
	}
	if c.App.FrontendURL != "http://localhost:3000" {
		t.Fatalf("unexpected frontend default %q", c.App.FrontendURL)
	}
	if c.Auth.LocalTTL != time.Hour {
		t.Fatalf("expected 1h local ttl, got %v", c.Auth.LocalTTL)
	}
	if !c.IsDevelopment() {
		t.Fatalf("local env should be development")
	}
}

func TestValidate_ProductionRejectsLocalProvider(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "production", Port: 8000},
		Auth: AuthConfig{Provider: AuthProviderLocal, LocalSecret: "secret"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for local provider in production")
	}
}

func TestValidate_PostgresRequiresSSLModeInProduction(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "production", Port: 8000},
		Auth:  AuthConfig{FirebaseProjectID: "powerise"},
		Store: StoreConfig{Driver: StoreDriverPostgres},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "powerise"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_PostgresLocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "dev", Port: 8000},
		Auth:  AuthConfig{FirebaseProjectID: "powerise"},
		Store: StoreConfig{Driver: StoreDriverPostgres},
		DB:    DBConfig{Host: "localhost", User: "postgres", Name: "powerise"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.DB.Port != 5432 {
		t.Fatalf("expected default port 5432, got %d", c.DB.Port)
	}
	if c.Auth.FirebaseJWKSURL == "" {
		t.Fatalf("expected default JWKS url")
	}
}

func TestValidate_OncePerViewerNeedsRedis(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "dev", Port: 8000},
		Auth:  AuthConfig{FirebaseProjectID: "powerise"},
		Views: ViewsConfig{Policy: ViewPolicyOncePerViewer},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error without redis")
	}

	c.Redis.Host = "localhost"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.RedisAddr() != "localhost:6379" {
		t.Fatalf("unexpected redis addr %q", c.RedisAddr())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8000")
	t.Setenv("AUTH_PROVIDER", "local")
	t.Setenv("AUTH_LOCAL_SECRET", "s3cret")
	t.Setenv("INQUIRY_RATE_LIMIT_RPS", "2")
	t.Setenv("INQUIRY_RATE_BURST", "3")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr() != ":8000" {
		t.Fatalf("unexpected addr %q", c.HTTPAddr())
	}
	if c.Inquiry.RateLimitRPS != 2 || c.Inquiry.RateBurst != 3 {
		t.Fatalf("unexpected inquiry limits: %+v", c.Inquiry)
	}
}

func TestLoad_RejectsNonIntegerPort(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("AUTH_PROVIDER", "local")
	t.Setenv("AUTH_LOCAL_SECRET", "s3cret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8000")
	t.Setenv("FIREBASE_PROJECT_ID", "powerise")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.10 ")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.App.TrustedProxies) != 2 || c.App.TrustedProxies[0] != "10.0.0.0/8" || c.App.TrustedProxies[1] != "192.168.1.10" {
		t.Fatalf("unexpected proxies %q", c.App.TrustedProxies)
	}
}

func TestValidate_RejectsBadTrustedProxy(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8000, TrustedProxies: []string{"load-balancer"}},
		Auth: AuthConfig{Provider: AuthProviderLocal, LocalSecret: "secret"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for non-IP proxy")
	}
}

func TestValidate_NoTrustedProxiesByDefault(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8000},
		Auth: AuthConfig{Provider: AuthProviderLocal, LocalSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(c.App.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies, got %q", c.App.TrustedProxies)
	}
}

func TestLoadLocalAuth(t *testing.T) {
	t.Setenv("AUTH_LOCAL_SECRET", "s3cret")
	t.Setenv("AUTH_LOCAL_ISSUER", "")
	t.Setenv("AUTH_LOCAL_TTL", "")

	a, err := LoadLocalAuth()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.LocalIssuer != "powerise-local" || a.LocalTTL != time.Hour || a.Provider != AuthProviderLocal {
		t.Fatalf("unexpected auth config %+v", a)
	}

	t.Setenv("AUTH_LOCAL_SECRET", "")
	if _, err := LoadLocalAuth(); err == nil {
		t.Fatalf("expected error without secret")
	}
}
