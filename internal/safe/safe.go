// Package safe extracts fields from loosely-typed vendor payloads.
// Exchange responses omit fields inconsistently from release to
// release, so every accessor tolerates missing keys, null values and
// wrong shapes, returning the caller's default (or the zero default)
// instead of failing the whole call.
//
// Payloads are decoded through ParseJSON, which keeps numeric literals
// as json.Number so a vendor string like "9e-08" survives verbatim
// into the canonical record.
package safe

import (
	"bytes"
	stdjson "encoding/json"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/shopspring/decimal"
)

// ParseJSON decodes a raw response body into an any-tree with numbers
// preserved as json.Number.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// value looks a key up in a map or an index up in a slice. Any shape
// mismatch yields (nil, false).
func value(raw any, key any) (any, bool) {
	switch container := raw.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, false
		}
		v, ok := container[k]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	case []any:
		i, ok := key.(int)
		if !ok || i < 0 || i >= len(container) {
			return nil, false
		}
		v := container[i]
		if v == nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

// String returns the field as a decimal-string-friendly text value.
// Numbers keep their source literal, strings pass through, everything
// else (and the empty string) degrades to the default.
func String(raw any, key any, def ...string) string {
	if v, ok := value(raw, key); ok {
		if s, ok := asString(v); ok && s != "" {
			return s
		}
	}
	return first(def)
}

// String2 tries two candidate keys in priority order.
func String2(raw any, key1, key2 any, def ...string) string {
	return StringN(raw, []any{key1, key2}, def...)
}

// StringN tries each candidate key in order and returns the first
// present value.
func StringN(raw any, keys []any, def ...string) string {
	for _, key := range keys {
		if s := String(raw, key); s != "" {
			return s
		}
	}
	return first(def)
}

// StringLower returns the field lowercased.
func StringLower(raw any, key any, def ...string) string {
	if s := String(raw, key); s != "" {
		return strings.ToLower(s)
	}
	return first(def)
}

// StringUpper returns the field uppercased.
func StringUpper(raw any, key any, def ...string) string {
	if s := String(raw, key); s != "" {
		return strings.ToUpper(s)
	}
	return first(def)
}

// Integer returns the field as an int64, parsing numeric strings and
// truncating fractional values. Zero is the "absent" default.
func Integer(raw any, key any, def ...int64) int64 {
	if v, ok := value(raw, key); ok {
		if n, ok := asInt(v); ok {
			return n
		}
	}
	return firstInt(def)
}

// Integer2 tries two candidate keys in priority order.
func Integer2(raw any, key1, key2 any, def ...int64) int64 {
	return IntegerN(raw, []any{key1, key2}, def...)
}

// IntegerN tries each candidate key in order.
func IntegerN(raw any, keys []any, def ...int64) int64 {
	for _, key := range keys {
		if v, ok := value(raw, key); ok {
			if n, ok := asInt(v); ok {
				return n
			}
		}
	}
	return firstInt(def)
}

// IntegerProduct returns the field multiplied by factor, used for
// vendors that report timestamps in coarser units.
func IntegerProduct(raw any, key any, factor int64, def ...int64) int64 {
	if v, ok := value(raw, key); ok {
		if n, ok := asInt(v); ok {
			return n * factor
		}
	}
	return firstInt(def)
}

// Timestamp returns a field holding seconds as milliseconds.
func Timestamp(raw any, key any, def ...int64) int64 {
	return IntegerProduct(raw, key, 1000, def...)
}

// Number returns the field as an exact decimal. Valid is false when
// the field is absent or non-numeric.
func Number(raw any, key any) decimal.NullDecimal {
	if s := String(raw, key); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

// Value returns the field untyped.
func Value(raw any, key any, def ...any) any {
	if v, ok := value(raw, key); ok {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// Value2 tries two candidate keys in priority order.
func Value2(raw any, key1, key2 any, def ...any) any {
	return ValueN(raw, []any{key1, key2}, def...)
}

// ValueN tries each candidate key in order.
func ValueN(raw any, keys []any, def ...any) any {
	for _, key := range keys {
		if v, ok := value(raw, key); ok {
			return v
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// Bool returns the field as a boolean, accepting "true"/"false" text.
func Bool(raw any, key any, def ...bool) bool {
	if v, ok := value(raw, key); ok {
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(strings.ToLower(b)); err == nil {
				return parsed
			}
		}
	}
	if len(def) > 0 {
		return def[0]
	}
	return false
}

// Map returns the field as an object, or nil on shape mismatch.
func Map(raw any, key any) map[string]any {
	if v, ok := value(raw, key); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// List returns the field as an array, or nil on shape mismatch.
func List(raw any, key any) []any {
	if v, ok := value(raw, key); ok {
		if l, ok := v.([]any); ok {
			return l
		}
	}
	return nil
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case stdjson.Number:
		return s.String(), true
	case float64:
		return decimal.NewFromFloat(s).String(), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	}
	return "", false
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case stdjson.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func first(def []string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func firstInt(def []int64) int64 {
	if len(def) > 0 {
		return def[0]
	}
	return 0
}
