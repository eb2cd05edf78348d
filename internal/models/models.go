// Package models defines the core data structures used throughout the application.
package models

import (
	"fmt"
	"strconv"
)

// Codeword is the identifier of an audio watermark that may be detected in
// an audio stream.
type Codeword int64

// MaxCodeword is the largest codeword a JSON number carries exactly.
const MaxCodeword Codeword = 1<<53 - 1

// Valid reports whether c is in [1, MaxCodeword].
func (c Codeword) Valid() bool {
	return c >= 1 && c <= MaxCodeword
}

func (c Codeword) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ActionMapping maps a codeword to the action that should be triggered
// downstream when the codeword is detected.
type ActionMapping struct {
	Codeword Codeword `json:"codeword" yaml:"codeword" jsonschema:"minimum=1,maximum=9007199254740991"`
	ActionID string   `json:"actionId" yaml:"actionId" jsonschema:"minLength=1"`
}

// Validate returns an error if either field is invalid.
func (m *ActionMapping) Validate() error {
	if !m.Codeword.Valid() {
		return &FieldError{Field: FieldCodeword, Reason: "must be a positive integer"}
	}
	if !ValidActionID(m.ActionID) {
		return &FieldError{Field: FieldActionID, Reason: "must not be empty"}
	}
	return nil
}

// Field names of an ActionMapping as they appear on the wire.
const (
	FieldCodeword = "codeword"
	FieldActionID = "actionId"
)

// FieldError reports why a field of a record or filter was rejected.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IntegrityError reports a malformed record in the backing store.
type IntegrityError struct {
	// Index is the position of the record in its table.
	Index int
	// Database identifies the backing store.
	Database string
	Err      error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ActionMapping database entry #%d is invalid (database: %s)", e.Index, e.Database)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
