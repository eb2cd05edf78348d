package models

import (
	"iter"
)

// Mappings validates each raw record of entries.
//
// The first invalid record yields an *IntegrityError and ends the sequence.
// Records yielded before it are valid.
func Mappings(entries iter.Seq2[any, error], database string) iter.Seq2[ActionMapping, error] {
	return func(yield func(ActionMapping, error) bool) {
		index := 0
		for raw, err := range entries {
			if err != nil {
				yield(ActionMapping{}, err)
				return
			}
			m, err := ParseRecord(raw)
			if err != nil {
				yield(ActionMapping{}, &IntegrityError{Index: index, Database: database, Err: err})
				return
			}
			if !yield(m, nil) {
				return
			}
			index++
		}
	}
}

// Filter is a partial ActionMapping. A zero field matches any value.
type Filter struct {
	Codeword Codeword `json:"codeword,omitzero"`
	ActionID string   `json:"actionId,omitzero"`
}

// IsEmpty reports whether f matches every mapping.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Match reports whether every present field of f equals the field of m.
func (f Filter) Match(m ActionMapping) bool {
	if f.Codeword != 0 && f.Codeword != m.Codeword {
		return false
	}
	if f.ActionID != "" && f.ActionID != m.ActionID {
		return false
	}
	return true
}

// FilterMappings yields the mappings of seq matched by f, in order.
func FilterMappings(seq iter.Seq2[ActionMapping, error], f Filter) iter.Seq2[ActionMapping, error] {
	return func(yield func(ActionMapping, error) bool) {
		for m, err := range seq {
			if err != nil {
				yield(m, err)
				return
			}
			if f.Match(m) && !yield(m, nil) {
				return
			}
		}
	}
}

// FirstWithCodeword returns the first mapping of seq with codeword c.
//
// Duplicates are not detected; later mappings with the same codeword are
// never read.
func FirstWithCodeword(seq iter.Seq2[ActionMapping, error], c Codeword) (ActionMapping, bool, error) {
	for m, err := range seq {
		if err != nil {
			return ActionMapping{}, false, err
		}
		if m.Codeword == c {
			return m, true, nil
		}
	}
	return ActionMapping{}, false, nil
}
