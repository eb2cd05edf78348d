package models

import (
	"errors"
	"iter"
)

// ErrNoFilter is returned by ParseFilter when there is no input at all.
var ErrNoFilter = errors.New("filter must be a mapping")

// ParseFilter builds a Filter from query fields.
//
// Fields are validated in the order fields yields them and the first invalid
// one is reported as a *FieldError. Each field must carry exactly one value.
func ParseFilter(fields iter.Seq2[string, []string]) (Filter, error) {
	var f Filter
	if fields == nil {
		return f, ErrNoFilter
	}
	for key, values := range fields {
		if len(values) != 1 {
			return Filter{}, &FieldError{Field: key, Reason: "must be a single text value"}
		}
		switch key {
		case FieldCodeword:
			c, err := ParseCodeword(values[0])
			if err != nil {
				return Filter{}, err
			}
			f.Codeword = c
		case FieldActionID:
			if !ValidActionID(values[0]) {
				return Filter{}, &FieldError{Field: key, Reason: "must not be empty"}
			}
			f.ActionID = values[0]
		default:
			return Filter{}, &FieldError{Field: key, Reason: "is not a filterable field"}
		}
	}
	return f, nil
}
