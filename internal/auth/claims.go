package auth

import (
	"encoding/json"
	"time"
)

// registered claims are surfaced as Identity fields, never as custom claims.
var registered = map[string]struct{}{
	"iss": {}, "aud": {}, "sub": {}, "exp": {}, "nbf": {}, "iat": {}, "jti": {},
	"auth_time": {}, "user_id": {}, "firebase": {},
	"email": {}, "email_verified": {},
}

// IdentityFromClaims builds an Identity from a decoded token payload.
// Only scalar custom claims are kept; nested objects and arrays are dropped.
func IdentityFromClaims(m map[string]any) *Identity {
	id := &Identity{Claims: map[string]ClaimValue{}}

	if s, ok := m["sub"].(string); ok {
		id.UID = s
	}
	if id.UID == "" {
		if s, ok := m["user_id"].(string); ok {
			id.UID = s
		}
	}
	if s, ok := m["email"].(string); ok {
		id.Email = s
	}
	if b, ok := m["email_verified"].(bool); ok {
		id.EmailVerified = b
	}
	id.IssuedAt = unixClaim(m["iat"])
	id.AuthTime = unixClaim(m["auth_time"])

	for k, v := range m {
		if _, skip := registered[k]; skip {
			continue
		}
		if cv, ok := ClaimFrom(v); ok {
			id.Claims[k] = cv
		}
	}
	return id
}

func unixClaim(v any) time.Time {
	var sec float64
	switch x := v.(type) {
	case float64:
		sec = x
	case int64:
		sec = float64(x)
	case int:
		sec = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}
		}
		sec = f
	default:
		return time.Time{}
	}
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}
