package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var errNotMapping = errors.New("record must be an object with exactly codeword and actionId")

// ValidCodeword reports whether f is a finite integer in [1, MaxCodeword].
func ValidCodeword(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) && f >= 1 && f <= float64(MaxCodeword)
}

// ValidActionID reports whether id can name an action.
func ValidActionID(id string) bool {
	return id != ""
}

// ValidateRecord reports whether raw is a well formed ActionMapping record.
func ValidateRecord(raw any) bool {
	_, err := ParseRecord(raw)
	return err == nil
}

// ParseRecord converts an untyped record into an ActionMapping.
//
// raw must be a map with exactly the keys "codeword" and "actionId". The
// codeword may be a json.Number, a float or any Go integer kind, as produced
// by the JSON and YAML decoders.
func ParseRecord(raw any) (ActionMapping, error) {
	var m ActionMapping
	rec, ok := raw.(map[string]any)
	if !ok || len(rec) != 2 {
		return m, errNotMapping
	}
	v, ok := rec[FieldCodeword]
	if !ok {
		return m, errNotMapping
	}
	c, ok := toCodeword(v)
	if !ok {
		return m, &FieldError{Field: FieldCodeword, Reason: "must be a positive integer"}
	}
	v, ok = rec[FieldActionID]
	if !ok {
		return m, errNotMapping
	}
	id, ok := v.(string)
	if !ok || !ValidActionID(id) {
		return m, &FieldError{Field: FieldActionID, Reason: "must be a non-empty string"}
	}
	m.Codeword = c
	m.ActionID = id
	return m, nil
}

// ParseCodeword parses text as a codeword.
//
// Leading and trailing spaces are ignored. The text must denote a positive
// integer; "42.0" is accepted, "3.1415", "-1" and "abc" are not.
func ParseCodeword(text string) (Codeword, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, &FieldError{Field: FieldCodeword, Reason: "must not be empty"}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &FieldError{Field: FieldCodeword, Reason: fmt.Sprintf("%q is not a number", text)}
	}
	if !ValidCodeword(f) {
		return 0, &FieldError{Field: FieldCodeword, Reason: fmt.Sprintf("%q is not a positive integer", text)}
	}
	return Codeword(f), nil
}

func toCodeword(v any) (Codeword, bool) {
	switch n := v.(type) {
	case json.Number:
		// Integers are parsed exactly; anything else goes through float64 like
		// a JSON number would.
		if i, err := n.Int64(); err == nil {
			c := Codeword(i)
			return c, c.Valid()
		}
		f, err := n.Float64()
		if err != nil || !ValidCodeword(f) {
			return 0, false
		}
		return Codeword(f), true
	case float64:
		if !ValidCodeword(n) {
			return 0, false
		}
		return Codeword(n), true
	case float32:
		return toCodeword(float64(n))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c := Codeword(rv.Int())
		return c, c.Valid()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > uint64(MaxCodeword) {
			return 0, false
		}
		return Codeword(u), Codeword(u).Valid()
	default:
		return 0, false
	}
}
