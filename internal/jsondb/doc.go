// Package jsondb reads and rewrites a flat JSON document holding named tables.
//
// # File Format
//
// The document is a single JSON object. Each member is a table: its name is the
// member key and its rows are the elements of the member's array value.
//
//	{"actionMappings": [{"codeword": 42, "actionId": "needle"}], "other": []}
//
// # Reads
//
// [Database.Entries] reads and parses the whole file every time an iteration
// starts. Nothing is cached between iterations, so concurrent readers each see
// the file as it was when their iteration began and no locking is necessary.
// Rows are yielded untyped; validating them is the caller's job.
//
// # Writes
//
// [WriteTable] replaces one table and keeps the others. It is an administrative
// operation (fixtures, CLI) and is not meant to race with readers of the same
// process; the rename makes it atomic for readers in other processes.
package jsondb
