// Package routes is the tree of route source files.
//
// Each file serves the URL path matching its location: actions.go serves
// /actions. A route with a path parameter lives in a file named freely and
// starting with a //route:path directive, since Go file names cannot hold
// brackets: actions/by_codeword.go declares actions/[codeword] and serves
// /actions/{codeword}. A file exports one function per HTTP method it
// answers, named after the method, with the signature of
// router.HandlerFunc[*handlers.Env].
//
// After adding, moving or removing a file, run go generate to refresh
// modules_gen.go.
package routes

import "embed"

//go:generate go tool routegen -o modules_gen.go

// Source is the route tree itself, walked at startup to build the routing
// table.
//
//go:embed *.go actions
var Source embed.FS
