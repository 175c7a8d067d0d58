package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"powerise-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalIssuer mints and verifies HS256 ID tokens with the same claim layout as
// the hosted provider. It is meant for local runs and tests.
type LocalIssuer struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked RevocationChecker
	now     func() time.Time
}

func NewLocalIssuer(cfg config.AuthConfig) (*LocalIssuer, error) {
	if cfg.LocalSecret == "" {
		return nil, errors.New("AUTH_LOCAL_SECRET is required")
	}
	ttl := cfg.LocalTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LocalIssuer{
		secret: []byte(cfg.LocalSecret),
		issuer: cfg.LocalIssuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithRevocations enables revocation checks on verify.
func (l *LocalIssuer) WithRevocations(rc RevocationChecker) *LocalIssuer {
	l.revoked = rc
	return l
}

// WithClock overrides the verification clock.
func (l *LocalIssuer) WithClock(now func() time.Time) *LocalIssuer {
	if now != nil {
		l.now = now
	}
	return l
}

type LocalUser struct {
	UID           string
	Email         string
	EmailVerified bool
	Claims        map[string]any
}

/* ===================== ISSUE ===================== */

func (l *LocalIssuer) Issue(now time.Time, u LocalUser) (string, error) {
	if u.UID == "" {
		return "", errors.New("uid is required")
	}

	claims := jwt.MapClaims{}
	for k, v := range u.Claims {
		if _, reserved := registered[k]; reserved {
			continue
		}
		claims[k] = v
	}
	claims["iss"] = l.issuer
	claims["sub"] = u.UID
	claims["user_id"] = u.UID
	claims["iat"] = now.Unix()
	claims["auth_time"] = now.Unix()
	claims["exp"] = now.Add(l.ttl).Unix()
	claims["jti"] = uuid.NewString()
	if u.Email != "" {
		claims["email"] = u.Email
		claims["email_verified"] = u.EmailVerified
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(l.secret)
}

/* ===================== VERIFY ===================== */

func (l *LocalIssuer) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(l.now),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if l.issuer != "" {
		opts = append(opts, jwt.WithIssuer(l.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(idToken, claims, func(*jwt.Token) (any, error) {
		return l.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	id := IdentityFromClaims(claims)
	if id.UID == "" {
		return nil, fmt.Errorf("%w: subject missing", ErrTokenInvalid)
	}
	if err := CheckRevoked(ctx, l.revoked, id); err != nil {
		return nil, err
	}
	return id, nil
}
