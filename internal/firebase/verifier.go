// Package firebase verifies Firebase Authentication ID tokens against the
// project's published signing keys.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

// maxUIDLength is the provider's limit on sub.
const maxUIDLength = 128

type Verifier struct {
	projectID string
	issuer    string
	keys      *KeySet
	revoked   auth.RevocationChecker
	now       func() time.Time
}

type Option func(*Verifier)

func WithRevocations(rc auth.RevocationChecker) Option {
	return func(v *Verifier) { v.revoked = rc }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
			v.keys.now = now
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		if c != nil {
			v.keys.cfg.HTTPClient = c
		}
	}
}

func NewVerifier(cfg config.AuthConfig, logger *slog.Logger, opts ...Option) (*Verifier, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseJWKSURL == "" {
		return nil, errors.New("FIREBASE_JWKS_URL is required")
	}

	v := &Verifier{
		projectID: cfg.FirebaseProjectID,
		issuer:    issuerPrefix + cfg.FirebaseProjectID,
		keys: NewKeySet(KeySetConfig{
			URL:    cfg.FirebaseJWKSURL,
			TTL:    cfg.FirebaseKeysTTL,
			Logger: logger,
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// VerifyIDToken checks signature, issuer, audience and timing, then the
// optional revocation mark. Rejections wrap the auth.ErrToken* sentinels.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(30*time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("ID token has no kid header")
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", auth.ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", auth.ErrTokenMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", auth.ErrTokenInvalid, err)
		}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" || len(sub) > maxUIDLength {
		return nil, fmt.Errorf("%w: sub must be 1..%d characters", auth.ErrTokenInvalid, maxUIDLength)
	}

	id := auth.IdentityFromClaims(claims)
	if id.AuthTime.IsZero() || id.AuthTime.After(v.now().Add(30*time.Second)) {
		return nil, fmt.Errorf("%w: auth_time missing or in the future", auth.ErrTokenInvalid)
	}

	if err := auth.CheckRevoked(ctx, v.revoked, id); err != nil {
		return nil, err
	}
	return id, nil
}
