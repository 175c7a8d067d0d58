// Package validate carries field-level input problems from the HTTP boundary to
// the client as a single 400 response.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Issue codes.
const (
	CodeRequired         = "required"
	CodeNotAnInteger     = "not_an_integer"
	CodeOutOfRange       = "out_of_range"
	CodeUnknownEnumValue = "unknown_enum_value"
	CodeTooLong          = "too_long"
	CodeTooShort         = "too_short"
	CodeInvalidEmail     = "invalid_email"
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidType      = "invalid_type"
	CodeInvalidJSON      = "invalid_json"
)

type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is a non-empty list of issues.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Add(field, code, msg string) {
	e.Issues = append(e.Issues, Issue{Field: field, Code: code, Message: msg})
}

// Err returns e when it has issues and nil otherwise.
func (e *Error) Err() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

var registerOnce sync.Once

// UseJSONFieldNames makes gin's validator report json tag names instead of Go
// field names. Safe to call more than once.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// FromBind converts an error from gin's ShouldBind* into *Error.
// Errors that are not input problems are returned unchanged.
func FromBind(err error) error {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := &Error{}
		for _, fe := range ve {
			code, msg := describe(fe)
			out.Add(fe.Field(), code, msg)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &Error{Issues: []Issue{{
			Field:   field,
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
		}}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Issues: []Issue{{Field: "body", Code: CodeInvalidJSON, Message: "request body must be valid JSON"}}}
	}

	return err
}

func describe(fe validator.FieldError) (code, msg string) {
	switch fe.Tag() {
	case "required":
		return CodeRequired, "is required"
	case "max":
		return CodeTooLong, fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return CodeTooShort, fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return CodeUnknownEnumValue, "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return CodeInvalidEmail, "must be a valid email address"
	case "datetime":
		return CodeInvalidFormat, "must be an RFC 3339 timestamp"
	default:
		return CodeInvalidFormat, "failed " + fe.Tag() + " check"
	}
}
