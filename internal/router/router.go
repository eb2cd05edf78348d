// Package router builds a net/http routing table from a tree of route source
// files.
//
// Each source file under the root contributes the routes of its module: an
// exported symbol named after an HTTP method (GET, POST, ...) and holding a
// HandlerFunc is registered under the URL pattern derived from the file's
// route path. The route path is the file's path without its extension, or
// the value of its //route:path directive. A bracketed segment becomes a path
// wildcard:
//
//	actions.go             -> /actions
//	actions/[codeword].go  -> /actions/{codeword}
//	actions/by_codeword.go -> /actions/{codeword} with //route:path actions/[codeword]
//
// The go command refuses file names holding brackets, so compiled trees name
// parameterized routes with the directive.
//
// Modules are not loaded dynamically. A Loader maps each file to its module;
// StaticLoader is the table generated at build time by cmd/routegen.
package router

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"
)

// Methods are the symbol names bound as handlers.
var Methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// IsMethod reports whether name is one of Methods.
func IsMethod(name string) bool {
	return slices.Contains(Methods, name)
}

// HandlerFunc serves a request. env carries the request scoped dependencies.
//
// The returned value is encoded as the JSON response body. An error
// implementing apierrors.ErrorWithStatus selects the response status; any
// other error is answered with a generic 500.
type HandlerFunc[E any] func(r *http.Request, env E) (any, error)

// Module is the set of exported symbols of a route source file.
type Module map[string]any

// Loader returns the module of a route source file.
type Loader interface {
	// Load returns the module of the file at rel, relative to the root of the
	// route tree and slash separated.
	Load(ctx context.Context, rel string) (Module, error)
}

// StaticLoader is a compiled Loader.
type StaticLoader map[string]Module

// Load implements Loader.
func (s StaticLoader) Load(ctx context.Context, rel string) (Module, error) {
	m, ok := s[rel]
	if !ok {
		return nil, fmt.Errorf("no compiled module for route file %q; run go generate", rel)
	}
	return m, nil
}

// Route is one entry of the routing table.
type Route[E any] struct {
	Method  string
	Pattern string
	// File is the source file the route was discovered in.
	File    string
	Handler HandlerFunc[E]
}

// MuxPattern returns the net/http.ServeMux pattern of the route.
func (r *Route[E]) MuxPattern() string {
	return r.Method + " " + r.Pattern
}

func (r *Route[E]) String() string {
	return r.MuxPattern() + " (" + r.File + ")"
}

// PathDirective sets the route path of a source file when it starts a line
// before the package clause:
//
//	//route:path actions/[codeword]
//
// The route path excludes the extension and stays in the file's directory.
const PathDirective = "//route:path"

// RoutePath returns the route path of the source file rel whose content is
// src.
func RoutePath(rel string, src []byte) (string, error) {
	route := strings.TrimSuffix(rel, ".go")
	found := false
	for line := range bytes.Lines(src) {
		l := strings.TrimSpace(string(line))
		if strings.HasPrefix(l, "package ") {
			break
		}
		v, ok := strings.CutPrefix(l, PathDirective)
		if !ok || (v != "" && v[0] != ' ' && v[0] != '\t') {
			continue
		}
		if found {
			return "", fmt.Errorf("%s: more than one %s directive", rel, PathDirective)
		}
		found = true
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "/") || path.Clean(v) != v || path.Dir(v) != path.Dir(rel) {
			return "", fmt.Errorf("%s: %s %q must name a route in directory %q", rel, PathDirective, v, path.Dir(rel))
		}
		route = v
	}
	return route, nil
}

// Pattern derives the URL pattern of a route path.
//
// A trailing .go is stripped and every segment written as [name] becomes the
// wildcard {name}.
func Pattern(rel string) string {
	rel = strings.TrimSuffix(rel, ".go")
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
			segments[i] = "{" + s[1:len(s)-1] + "}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// Discover walks the route tree rooted at root in fsys and returns its routes
// sorted by pattern then method.
//
// Each source file is read for its route path and loaded by its file path.
//
// Symbols that are not named after a method, or that do not hold a
// HandlerFunc, are ignored.
func Discover[E any](ctx context.Context, fsys fs.FS, root string, loader Loader) ([]Route[E], error) {
	var mu sync.Mutex
	var routes []Route[E]
	err := Walk(ctx, fsys, root, func(ctx context.Context, rel string) error {
		src, err := fs.ReadFile(fsys, path.Join(root, rel))
		if err != nil {
			return err
		}
		route, err := RoutePath(rel, src)
		if err != nil {
			return err
		}
		mod, err := loader.Load(ctx, rel)
		if err != nil {
			return err
		}
		pattern := Pattern(route)
		var found []Route[E]
		for name, v := range mod {
			if !IsMethod(name) {
				continue
			}
			h, ok := asHandler[E](v)
			if !ok {
				slog.DebugContext(ctx, "Skipping non-handler", "file", rel, "symbol", name)
				continue
			}
			found = append(found, Route[E]{Method: name, Pattern: pattern, File: rel, Handler: h})
		}
		mu.Lock()
		routes = append(routes, found...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(routes, func(a, b Route[E]) int {
		return cmp.Or(cmp.Compare(a.Pattern, b.Pattern), cmp.Compare(a.Method, b.Method))
	})
	return routes, nil
}

func asHandler[E any](v any) (HandlerFunc[E], bool) {
	switch f := v.(type) {
	case HandlerFunc[E]:
		return f, f != nil
	case func(*http.Request, E) (any, error):
		return f, f != nil
	default:
		return nil, false
	}
}

// Mux is the subset of http.ServeMux used by Register.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Register wraps every route and adds it to mux.
//
// It returns once all routes are registered. Two routes with the same method
// and pattern, or a pattern mux refuses, fail the whole registration.
func Register[E any](ctx context.Context, mux Mux, routes []Route[E], envFor func(*http.Request) E, opts *Options) error {
	seen := make(map[string]string, len(routes))
	for i := range routes {
		r := &routes[i]
		p := r.MuxPattern()
		if prev, ok := seen[p]; ok {
			return fmt.Errorf("route %q is defined by both %s and %s", p, prev, r.File)
		}
		seen[p] = r.File
		if err := handle(mux, p, Wrap(r.Handler, envFor, opts)); err != nil {
			return fmt.Errorf("route %q from %s: %w", p, r.File, err)
		}
		opts.logger(ctx).DebugContext(ctx, "Initialised route", "method", r.Method, "pattern", r.Pattern, "file", r.File)
	}
	return nil
}

// handle converts the panic of http.ServeMux on conflicting patterns into an
// error.
func handle(mux Mux, pattern string, h http.Handler) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%v", v)
		}
	}()
	mux.Handle(pattern, h)
	return nil
}
