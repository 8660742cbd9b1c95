// Package schema implements declarative parameter schemas for MCP tools.
//
// A Schema describes a tool's accepted input: field types, required flags,
// defaults, enumerations, and range constraints. Validation is a pure
// function from raw caller input to either a complete Params value (with
// defaults filled in) or a ValidationErrors listing every violated
// constraint. The same Schema also projects into mcp-go tool options so the
// advertised JSON schema matches the enforced one.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// FieldType identifies the accepted value type for a field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeBoolean
	TypeStringArray
)

// Field describes one parameter of a tool schema.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool

	// Default is filled into the validated parameters when the caller
	// omits an optional field. Required fields must not carry a default.
	Default any

	// String constraints.
	Enum      []string
	MinLen    int
	URL       bool // value must be an absolute http(s) URL
	JSON      bool // non-empty value must be valid JSON text
	URLIfSet  bool // like URL, but only enforced when non-empty

	// Number constraints.
	Min     *float64
	Max     *float64
	Integer bool

	// Array constraints.
	MinItems int
	ItemURL  bool // every element must be an absolute http(s) URL
	ItemEnum []string
}

// Schema is an ordered set of fields describing a tool's input.
type Schema struct {
	Fields []Field
}

// New builds a Schema from the given fields.
func New(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Float returns a pointer suitable for Field.Min / Field.Max.
func Float(v float64) *float64 { return &v }

// Validate applies the schema to raw caller input. It returns a Params value
// with all declared fields present (defaults applied) on success, or a
// ValidationErrors enumerating every violated constraint. Unknown parameters
// are rejected so typos surface instead of being silently dropped.
func (s *Schema) Validate(raw map[string]any) (Params, error) {
	var errs ValidationErrors
	params := make(Params, len(s.Fields))

	declared := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = true
	}
	for key := range raw {
		if !declared[key] {
			errs = append(errs, FieldError{Field: key, Message: "unknown parameter"})
		}
	}

	for _, f := range s.Fields {
		val, present := raw[f.Name]
		if !present || val == nil {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "required parameter is missing"})
				continue
			}
			if f.Default != nil {
				params[f.Name] = f.Default
			}
			continue
		}

		coerced, fieldErrs := f.check(val)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		params[f.Name] = coerced
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return params, nil
}

// check verifies a present value against the field's type and constraints,
// returning the coerced value on success.
func (f Field) check(val any) (any, ValidationErrors) {
	switch f.Type {
	case TypeString:
		return f.checkString(val)
	case TypeNumber:
		return f.checkNumber(val)
	case TypeBoolean:
		b, ok := val.(bool)
		if !ok {
			return nil, f.fail("must be a boolean")
		}
		return b, nil
	case TypeStringArray:
		return f.checkStringArray(val)
	}
	return nil, f.fail("unsupported field type")
}

func (f Field) checkString(val any) (any, ValidationErrors) {
	str, ok := val.(string)
	if !ok {
		return nil, f.fail("must be a string")
	}
	var errs ValidationErrors
	if f.MinLen > 0 && len(str) < f.MinLen {
		errs = append(errs, FieldError{Field: f.Name,
			Message: fmt.Sprintf("must be at least %d characters", f.MinLen)})
	}
	if len(f.Enum) > 0 && !containsString(f.Enum, str) {
		errs = append(errs, FieldError{Field: f.Name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", "))})
	}
	if f.URL || (f.URLIfSet && str != "") {
		if !isHTTPURL(str) {
			errs = append(errs, FieldError{Field: f.Name, Message: "must be a valid http(s) URL"})
		}
	}
	if f.JSON && str != "" && !json.Valid([]byte(str)) {
		errs = append(errs, FieldError{Field: f.Name, Message: "must be valid JSON text"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return str, nil
}

func (f Field) checkNumber(val any) (any, ValidationErrors) {
	var num float64
	switch v := val.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, f.fail("must be a number")
		}
		num = parsed
	default:
		return nil, f.fail("must be a number")
	}

	var errs ValidationErrors
	if f.Integer && num != math.Trunc(num) {
		errs = append(errs, FieldError{Field: f.Name, Message: "must be an integer"})
	}
	if f.Min != nil && num < *f.Min {
		errs = append(errs, FieldError{Field: f.Name,
			Message: fmt.Sprintf("must be at least %v", *f.Min)})
	}
	if f.Max != nil && num > *f.Max {
		errs = append(errs, FieldError{Field: f.Name,
			Message: fmt.Sprintf("must be at most %v", *f.Max)})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return num, nil
}

func (f Field) checkStringArray(val any) (any, ValidationErrors) {
	var items []string
	switch v := val.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, elem := range v {
			str, ok := elem.(string)
			if !ok {
				return nil, f.fail("must be an array of strings")
			}
			items = append(items, str)
		}
	default:
		return nil, f.fail("must be an array of strings")
	}

	var errs ValidationErrors
	if len(items) < f.MinItems {
		errs = append(errs, FieldError{Field: f.Name,
			Message: fmt.Sprintf("must contain at least %d item(s)", f.MinItems)})
	}
	for i, item := range items {
		if f.ItemURL && !isHTTPURL(item) {
			errs = append(errs, FieldError{Field: f.Name,
				Message: fmt.Sprintf("item %d must be a valid http(s) URL", i)})
		}
		if len(f.ItemEnum) > 0 && !containsString(f.ItemEnum, item) {
			errs = append(errs, FieldError{Field: f.Name,
				Message: fmt.Sprintf("item %d must be one of: %s", i, strings.Join(f.ItemEnum, ", "))})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

func (f Field) fail(msg string) ValidationErrors {
	return ValidationErrors{{Field: f.Name, Message: msg}}
}

// isHTTPURL reports whether s is an absolute URL with an http or https scheme.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ToolOptions projects the schema into mcp-go tool property options so the
// tool advertises the same shape that Validate enforces.
func (s *Schema) ToolOptions() []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, len(s.Fields))
	for _, f := range s.Fields {
		opts = append(opts, f.toolOption())
	}
	return opts
}

func (f Field) toolOption() mcp.ToolOption {
	var props []mcp.PropertyOption
	if f.Description != "" {
		props = append(props, mcp.Description(f.Description))
	}
	if f.Required {
		props = append(props, mcp.Required())
	}

	switch f.Type {
	case TypeNumber:
		if f.Min != nil {
			props = append(props, mcp.Min(*f.Min))
		}
		if f.Max != nil {
			props = append(props, mcp.Max(*f.Max))
		}
		if d, ok := f.Default.(float64); ok {
			props = append(props, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(f.Name, props...)
	case TypeBoolean:
		if d, ok := f.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(f.Name, props...)
	case TypeStringArray:
		props = append([]mcp.PropertyOption{mcp.WithStringItems()}, props...)
		return mcp.WithArray(f.Name, props...)
	default:
		if len(f.Enum) > 0 {
			props = append(props, mcp.Enum(f.Enum...))
		}
		if d, ok := f.Default.(string); ok && d != "" {
			props = append(props, mcp.DefaultString(d))
		}
		return mcp.WithString(f.Name, props...)
	}
}
