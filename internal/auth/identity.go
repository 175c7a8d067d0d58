package auth

import (
	"encoding/json"
	"time"
)

// ClaimKind enumerates the value types a claim may carry.
type ClaimKind uint8

const (
	ClaimBool ClaimKind = iota + 1
	ClaimString
	ClaimNumber
)

// ClaimValue is a closed union of bool, string and number.
// The zero value is "absent" and is never truthy.
type ClaimValue struct {
	kind ClaimKind
	b    bool
	s    string
	n    float64
}

func BoolClaim(v bool) ClaimValue      { return ClaimValue{kind: ClaimBool, b: v} }
func StringClaim(v string) ClaimValue  { return ClaimValue{kind: ClaimString, s: v} }
func NumberClaim(v float64) ClaimValue { return ClaimValue{kind: ClaimNumber, n: v} }

// ClaimFrom converts a decoded JSON value. Objects, arrays and nulls are not claims.
func ClaimFrom(v any) (ClaimValue, bool) {
	switch x := v.(type) {
	case bool:
		return BoolClaim(x), true
	case string:
		return StringClaim(x), true
	case float64:
		return NumberClaim(x), true
	case int:
		return NumberClaim(float64(x)), true
	case int64:
		return NumberClaim(float64(x)), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return ClaimValue{}, false
		}
		return NumberClaim(f), true
	default:
		return ClaimValue{}, false
	}
}

func (v ClaimValue) Kind() ClaimKind { return v.kind }

func (v ClaimValue) AsBool() (bool, bool) { return v.b, v.kind == ClaimBool }

func (v ClaimValue) AsString() (string, bool) { return v.s, v.kind == ClaimString }

func (v ClaimValue) AsNumber() (float64, bool) { return v.n, v.kind == ClaimNumber }

// Truthy follows JSON truthiness: true, a non-empty string or a non-zero number.
func (v ClaimValue) Truthy() bool {
	switch v.kind {
	case ClaimBool:
		return v.b
	case ClaimString:
		return v.s != ""
	case ClaimNumber:
		return v.n != 0
	default:
		return false
	}
}

func (v ClaimValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ClaimBool:
		return json.Marshal(v.b)
	case ClaimString:
		return json.Marshal(v.s)
	case ClaimNumber:
		return json.Marshal(v.n)
	default:
		return []byte("null"), nil
	}
}

// Identity is the verified caller of a single request. It is never persisted.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Claims        map[string]ClaimValue

	IssuedAt time.Time
	AuthTime time.Time
}

// Claim returns the named claim, if present.
func (id *Identity) Claim(name string) (ClaimValue, bool) {
	if id == nil || id.Claims == nil {
		return ClaimValue{}, false
	}
	v, ok := id.Claims[name]
	return v, ok
}

// HasClaim reports whether the named claim is present and truthy.
func (id *Identity) HasClaim(name string) bool {
	v, _ := id.Claim(name)
	return v.Truthy()
}
