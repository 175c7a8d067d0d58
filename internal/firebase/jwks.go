package firebase

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

var ErrKeyNotFound = errors.New("firebase: signing key not found")

const (
	// Unknown kids do not force a refetch more often than this.
	minRefreshInterval = time.Minute
	refreshTimeout     = 10 * time.Second
)

type KeySetConfig struct {
	URL string
	// TTL bounds how long a fetched key set is trusted. Default: 1 hour.
	TTL        time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// KeySet caches the provider's public signing keys by kid.
// Concurrent misses share one fetch; repeated fetch failures open a breaker
// and the last good keys keep serving until it closes.
type KeySet struct {
	cfg KeySetConfig

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time

	sf      singleflight.Group
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewKeySet(cfg KeySetConfig) *KeySet {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ks := &KeySet{cfg: cfg, keys: map[string]*rsa.PublicKey{}, now: time.Now}
	ks.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "firebase-jwks",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	})
	return ks
}

// Key returns the RSA key for kid, refreshing the set when stale or when kid
// is unknown.
func (k *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	fresh := k.now().Sub(k.fetchedAt) < k.cfg.TTL
	key := k.keys[kid]
	k.mu.RUnlock()
	if fresh && key != nil {
		return key, nil
	}
	if fresh && k.now().Sub(k.fetchedAt) < minRefreshInterval {
		return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}

	// The flight is shared, so it must outlive the request that started it.
	_, err, _ := k.sf.Do("refresh", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return k.breaker.Execute(func() (any, error) {
			return nil, k.refresh(fetchCtx)
		})
	})

	k.mu.RLock()
	key = k.keys[kid]
	k.mu.RUnlock()

	if key != nil {
		if err != nil {
			k.cfg.Logger.Warn("jwks refresh failed, serving cached key", "kid", kid, "err", err)
		}
		return key, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch signing keys: %w", err)
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

func (k *KeySet) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.cfg.URL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read JWKS: %w", err)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return fmt.Errorf("parse JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok || key.KeyID() == "" {
			continue
		}
		var pub rsa.PublicKey
		if err := key.Raw(&pub); err != nil {
			continue // not RSA
		}
		keys[key.KeyID()] = &pub
	}
	if len(keys) == 0 {
		return errors.New("JWKS contains no usable RSA keys")
	}

	k.mu.Lock()
	k.keys = keys
	k.fetchedAt = k.now()
	k.mu.Unlock()

	k.cfg.Logger.Debug("jwks refreshed", "url", k.cfg.URL, "keys", len(keys))
	return nil
}
