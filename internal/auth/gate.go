package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// TokenVerifier is the identity provider. Implementations wrap one of the
// ErrToken* sentinels when rejecting a token and must be safe for concurrent use.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

// VerifierFunc adapts a function to TokenVerifier.
type VerifierFunc func(ctx context.Context, idToken string) (*Identity, error)

func (f VerifierFunc) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	return f(ctx, idToken)
}

// ExtractBearer pulls the token out of the Authorization header.
// The prefix match is case-sensitive with a single space.
func ExtractBearer(h http.Header) (string, error) {
	raw := h.Get(AuthorizationHeader)
	if raw == "" {
		return "", &AuthError{Kind: KindMissingHeader}
	}
	if !strings.HasPrefix(raw, BearerPrefix) {
		return "", &AuthError{Kind: KindMalformedHeader}
	}
	tok := strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix))
	if tok == "" {
		return "", &AuthError{Kind: KindMissingToken}
	}
	return tok, nil
}

// Authenticate turns request headers into a verified Identity.
//
// Header problems are reported before the verifier is consulted; every verifier
// failure becomes a token-kind AuthError. A nil verifier yields
// ErrVerifierUnavailable, which callers treat as a server fault.
func Authenticate(ctx context.Context, h http.Header, v TokenVerifier) (*Identity, error) {
	tok, err := ExtractBearer(h)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVerifierUnavailable
	}

	id, err := v.VerifyIDToken(ctx, tok)
	if err != nil {
		return nil, &AuthError{Kind: ClassifyVerifyError(err), Err: err}
	}
	if id == nil || id.UID == "" {
		return nil, &AuthError{Kind: KindTokenInvalid, Err: errors.New("verifier returned no subject")}
	}
	return id, nil
}

// RequireAuthorization succeeds iff identity carries a truthy claim.
// An absent claim is treated exactly like a false one.
func RequireAuthorization(identity *Identity, claim string) error {
	if identity == nil {
		return &AuthError{Kind: KindNotAuthenticated}
	}
	if !identity.HasClaim(claim) {
		return &AuthError{Kind: KindInsufficientPrivilege, Claim: claim}
	}
	return nil
}
