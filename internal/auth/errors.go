package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Kind classifies why the gate rejected a request.
type Kind string

const (
	KindMissingHeader   Kind = "missing_header"
	KindMalformedHeader Kind = "malformed_header"
	KindMissingToken    Kind = "missing_token"

	KindTokenExpired   Kind = "token_expired"
	KindTokenMalformed Kind = "token_malformed"
	KindTokenRevoked   Kind = "token_revoked"
	KindTokenInvalid   Kind = "token_invalid"

	KindNotAuthenticated      Kind = "not_authenticated"
	KindInsufficientPrivilege Kind = "insufficient_privilege"
)

// Outcome is the HTTP-level class of a rejection.
type Outcome int

const (
	// Unauthorized: the caller never presented a usable credential.
	Unauthorized Outcome = iota + 1
	// Forbidden: the credential was rejected or lacks privileges.
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	default:
		return "Unknown"
	}
}

func (k Kind) Outcome() Outcome {
	switch k {
	case KindMissingHeader, KindMalformedHeader, KindMissingToken, KindNotAuthenticated:
		return Unauthorized
	default:
		return Forbidden
	}
}

// Sentinel errors returned (wrapped) by TokenVerifier implementations.
var (
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenRevoked   = errors.New("auth: token revoked")
	ErrTokenInvalid   = errors.New("auth: token invalid")

	// ErrVerifierUnavailable means the server has no identity provider configured.
	ErrVerifierUnavailable = errors.New("auth: identity verifier not configured")
)

// AuthError is a terminal gate rejection.
type AuthError struct {
	Kind Kind
	// Claim is set for KindInsufficientPrivilege.
	Claim string
	Err   error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return "auth: " + string(e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Outcome() Outcome { return e.Kind.Outcome() }

// Message is the client-facing explanation.
func (e *AuthError) Message() string {
	switch e.Kind {
	case KindMissingHeader:
		return "No authorization header provided"
	case KindMalformedHeader:
		return "Invalid authorization header format. Expected: Bearer <token>"
	case KindMissingToken:
		return "No token provided"
	case KindTokenExpired:
		return "Token has expired"
	case KindTokenMalformed:
		return "Invalid token format"
	case KindTokenRevoked:
		return "Token has been revoked"
	case KindNotAuthenticated:
		return "User not authenticated"
	case KindInsufficientPrivilege:
		claim := e.Claim
		if claim == "" {
			claim = "required"
		}
		return strings.ToUpper(claim[:1]) + claim[1:] + " privileges required"
	default:
		return "Invalid or expired token"
	}
}

// ClassifyVerifyError maps any verifier failure onto one of the four token kinds.
// Transient and permanent failures are not distinguished.
func ClassifyVerifyError(err error) Kind {
	switch {
	case errors.Is(err, ErrTokenExpired), errors.Is(err, jwt.ErrTokenExpired):
		return KindTokenExpired
	case errors.Is(err, ErrTokenRevoked):
		return KindTokenRevoked
	case errors.Is(err, ErrTokenMalformed), errors.Is(err, jwt.ErrTokenMalformed):
		return KindTokenMalformed
	case errors.Is(err, ErrTokenInvalid):
		return KindTokenInvalid
	}

	// Collaborators outside this module may only describe the failure in text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired"):
		return KindTokenExpired
	case strings.Contains(msg, "revoked"):
		return KindTokenRevoked
	default:
		return KindTokenInvalid
	}
}
