package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values come from env (or an env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	Auth    AuthConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	Views   ViewsConfig
	Inquiry InquiryConfig
}

type AppConfig struct {
	Env  string
	Port int

	// FrontendURL is the only origin allowed by CORS.
	FrontendURL string

	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For is honoured.
	// Empty means the client IP is always the socket peer.
	TrustedProxies []string
}

const (
	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"
)

type AuthConfig struct {
	Provider string

	FirebaseProjectID string
	FirebaseJWKSURL   string
	FirebaseKeysTTL   time.Duration

	// Local provider signs HS256 ID tokens; local/dev only.
	LocalSecret string
	LocalIssuer string
	LocalTTL    time.Duration
}

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

type StoreConfig struct {
	Driver string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

// RedisConfig is optional. An empty Host disables revocation checks and
// per-viewer view de-duplication.
type RedisConfig struct {
	Host string
	Port int
}

const (
	ViewPolicyEveryRead     = "every_read"
	ViewPolicyOncePerViewer = "once_per_viewer"
)

type ViewsConfig struct {
	Policy       string
	DedupeWindow time.Duration
}

type InquiryConfig struct {
	RateLimitRPS float64
	RateBurst    int
}

const defaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.FrontendURL = strings.TrimSpace(os.Getenv("FRONTEND_URL"))
	c.App.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	c.Auth.Provider = strings.TrimSpace(os.Getenv("AUTH_PROVIDER"))
	c.Auth.FirebaseProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	c.Auth.FirebaseJWKSURL = strings.TrimSpace(os.Getenv("FIREBASE_JWKS_URL"))
	c.Auth.FirebaseKeysTTL = optionalDuration("FIREBASE_KEYS_TTL")
	c.Auth.LocalSecret = os.Getenv("AUTH_LOCAL_SECRET")
	c.Auth.LocalIssuer = strings.TrimSpace(os.Getenv("AUTH_LOCAL_ISSUER"))
	c.Auth.LocalTTL = optionalDuration("AUTH_LOCAL_TTL")

	c.Store.Driver = strings.TrimSpace(os.Getenv("STORE_DRIVER"))

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := optionalInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := optionalInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Views.Policy = strings.TrimSpace(os.Getenv("VIEW_POLICY"))
	c.Views.DedupeWindow = optionalDuration("VIEW_DEDUPE_WINDOW")

	if v := strings.TrimSpace(os.Getenv("INQUIRY_RATE_LIMIT_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("INQUIRY_RATE_LIMIT_RPS must be a number, got %q", v))
		}
		c.Inquiry.RateLimitRPS = f
	}
	{
		n, err := optionalInt("INQUIRY_RATE_BURST")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Inquiry.RateBurst = n
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks required values and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.FrontendURL == "" {
		c.App.FrontendURL = "http://localhost:3000"
	}
	for _, p := range c.App.TrustedProxies {
		if !isIPOrCIDR(p) {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES entries must be IPs or CIDRs, got %q", p))
		}
	}

	if c.Auth.Provider == "" {
		c.Auth.Provider = AuthProviderFirebase
	}
	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Auth.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firebase auth provider"))
		}
		if c.Auth.FirebaseJWKSURL == "" {
			c.Auth.FirebaseJWKSURL = defaultFirebaseJWKSURL
		}
		if c.Auth.FirebaseKeysTTL <= 0 {
			c.Auth.FirebaseKeysTTL = time.Hour
		}
	case AuthProviderLocal:
		if c.IsProduction() {
			errs = append(errs, errors.New("AUTH_PROVIDER=local is not allowed in production"))
		}
		if err := c.Auth.validateLocal(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_PROVIDER must be one of firebase, local, got %q", c.Auth.Provider))
	}

	if c.Store.Driver == "" {
		c.Store.Driver = StoreDriverMemory
	}
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		errs = append(errs, c.validateDB()...)
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of memory, postgres, got %q", c.Store.Driver))
	}

	if c.Redis.Host != "" {
		if c.Redis.Port == 0 {
			c.Redis.Port = 6379
		}
		if c.Redis.Port < 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
	}

	if c.Views.Policy == "" {
		c.Views.Policy = ViewPolicyEveryRead
	}
	switch c.Views.Policy {
	case ViewPolicyEveryRead:
	case ViewPolicyOncePerViewer:
		if !c.RedisEnabled() {
			errs = append(errs, errors.New("VIEW_POLICY=once_per_viewer requires REDIS_HOST"))
		}
	default:
		errs = append(errs, fmt.Errorf("VIEW_POLICY must be one of every_read, once_per_viewer, got %q", c.Views.Policy))
	}
	if c.Views.DedupeWindow <= 0 {
		c.Views.DedupeWindow = 30 * time.Minute
	}

	if c.Inquiry.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("INQUIRY_RATE_LIMIT_RPS must not be negative, got %v", c.Inquiry.RateLimitRPS))
	}
	if c.Inquiry.RateLimitRPS == 0 {
		// One submission every 12s per client, with a small burst.
		c.Inquiry.RateLimitRPS = 1.0 / 12
	}
	if c.Inquiry.RateBurst <= 0 {
		c.Inquiry.RateBurst = 5
	}

	return joinErrors(errs)
}

// LoadLocalAuth reads only the local provider settings. Tools that mint
// tokens for a running API use it so they sign with the same secret and issuer.
func LoadLocalAuth() (AuthConfig, error) {
	a := AuthConfig{
		Provider:    AuthProviderLocal,
		LocalSecret: os.Getenv("AUTH_LOCAL_SECRET"),
		LocalIssuer: strings.TrimSpace(os.Getenv("AUTH_LOCAL_ISSUER")),
		LocalTTL:    optionalDuration("AUTH_LOCAL_TTL"),
	}
	if err := a.validateLocal(); err != nil {
		return AuthConfig{}, err
	}
	return a, nil
}

func (a *AuthConfig) validateLocal() error {
	if a.LocalIssuer == "" {
		a.LocalIssuer = "powerise-local"
	}
	if a.LocalTTL <= 0 {
		a.LocalTTL = time.Hour
	}
	if a.LocalSecret == "" {
		return errors.New("AUTH_LOCAL_SECRET is required for the local auth provider")
	}
	return nil
}

func (c *Config) validateDB() []error {
	var errs []error
	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.Port < 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}
	return errs
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return c.App.Env == "local" || c.App.Env == "dev"
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isIPOrCIDR(v string) bool {
	if net.ParseIP(v) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(v)
	return err == nil
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
