package router

import (
	"fmt"
	"iter"
	"net/url"
	"strings"
)

// Query is a parsed query string that remembers the order in which keys
// first appeared.
type Query struct {
	keys   []string
	values url.Values
}

// ParseQuery parses a raw query string. Repeated keys are grouped.
//
// Like url.ParseQuery, a semicolon or a bad escape sequence is an error.
func ParseQuery(raw string) (Query, error) {
	q := Query{values: url.Values{}}
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		if strings.Contains(pair, ";") {
			return Query{}, fmt.Errorf("invalid semicolon separator in query")
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return Query{}, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return Query{}, err
		}
		if _, ok := q.values[key]; !ok {
			q.keys = append(q.keys, key)
		}
		q.values[key] = append(q.values[key], value)
	}
	return q, nil
}

// Len returns the number of distinct keys.
func (q Query) Len() int {
	return len(q.keys)
}

// Get returns the values of key.
func (q Query) Get(key string) []string {
	return q.values[key]
}

// All yields every key with its values in order of first appearance.
func (q Query) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range q.keys {
			if !yield(k, q.values[k]) {
				return
			}
		}
	}
}
