// Package payload turns loosely typed form input into the exact request
// bodies the catalog backend accepts. The backend rejects unknown fields, so
// every normalizer builds its output from an allow-list and never copies
// input keys through.
//
// Normalizers never fail. Input that cannot be used for a field leaves the
// field out; whether required fields are present is the backend's call.
package payload

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Form is submitted form data keyed by field name. Values may be strings,
// numbers, booleans or nil; a missing key means the field was not provided.
type Form map[string]any

// text returns v trimmed when v is a string with non-blank content.
func text(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// number coerces v to a finite number. Missing, nil and blank values are not
// numbers.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		rv := reflect.ValueOf(v)
		switch {
		case rv.CanInt():
			f = float64(rv.Int())
		case rv.CanUint():
			f = float64(rv.Uint())
		case rv.CanFloat():
			f = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy follows the usual loose boolean rules: false, zero, NaN, the empty
// string and nil are false, everything else is true.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	}
	if f, ok := number(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	if rv.CanFloat() {
		// NaN and infinities fall through number().
		return !math.IsNaN(rv.Float())
	}
	return true
}

// flag resolves a boolean field, consulting the aliases in order when key is
// absent. It returns nil when none of the keys are present.
func flag(f Form, key string, aliases ...string) *bool {
	for _, k := range append([]string{key}, aliases...) {
		if v, ok := f[k]; ok {
			b := truthy(v)
			return &b
		}
	}
	return nil
}

func optText(f Form, key string) *string {
	if s, ok := text(f[key]); ok {
		return &s
	}
	return nil
}

func optNumber(f Form, key string) *float64 {
	if n, ok := number(f[key]); ok {
		return &n
	}
	return nil
}

// toForm renders a normalized body back into a Form with the same keys it
// would have on the wire.
func toForm(v any) Form {
	data, err := json.Marshal(v)
	if err != nil {
		return Form{}
	}
	out := Form{}
	if err := json.Unmarshal(data, &out); err != nil {
		return Form{}
	}
	return out
}
