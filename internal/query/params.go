// Package query implements the list contract shared by every collection
// endpoint: validated limit/offset/category/status in, a stable page out.
package query

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"powerise-api/internal/validate"
)

// Schema describes what a collection accepts.
type Schema struct {
	DefaultLimit int
	MaxLimit     int
	Categories   []string
	Statuses     []string
}

// Params are validated list parameters. Empty Category/Status mean "any".
type Params struct {
	Limit    int
	Offset   int
	Category string
	Status   string
}

// ParseParams validates raw query values against s. All problems are reported
// together as a *validate.Error. Absent and empty values take their defaults.
func ParseParams(values url.Values, s Schema) (Params, error) {
	p := Params{Limit: s.DefaultLimit}
	verr := &validate.Error{}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("limit", validate.CodeNotAnInteger, "must be an integer")
		case n < 1 || n > s.MaxLimit:
			verr.Add("limit", validate.CodeOutOfRange, fmt.Sprintf("must be between 1 and %d", s.MaxLimit))
		default:
			p.Limit = n
		}
	}

	if raw := strings.TrimSpace(values.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("offset", validate.CodeNotAnInteger, "must be an integer")
		case n < 0:
			verr.Add("offset", validate.CodeOutOfRange, "must be 0 or greater")
		default:
			p.Offset = n
		}
	}

	p.Category = enumParam(values, "category", s.Categories, verr)
	p.Status = enumParam(values, "status", s.Statuses, verr)

	if err := verr.Err(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// enumParam returns "" when name is absent. A present but empty value is not a
// member of any enum and is rejected.
func enumParam(values url.Values, name string, allowed []string, verr *validate.Error) string {
	if !values.Has(name) {
		return ""
	}
	raw := values.Get(name)
	if !slices.Contains(allowed, raw) {
		verr.Add(name, validate.CodeUnknownEnumValue, "must be one of "+strings.Join(allowed, ", "))
		return ""
	}
	return raw
}
