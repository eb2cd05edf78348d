// Command routegen compiles a route tree into a router.StaticLoader.
//
// It is meant to run through go generate in the root package of the tree:
//
//	//go:generate go tool routegen -o modules_gen.go
//
// Every route source file under the current directory is parsed and its
// top level exported declarations named after an HTTP method are listed in
// the generated Modules function, keyed by the file's slash separated path.
//
// The go command refuses file and directory names holding brackets, so a
// route with a path parameter is a freely named file declaring its route
// with a directive before its package clause:
//
//	//route:path actions/[codeword]
//
// routegen rejects names the go command would refuse and invalid directives.
package main

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/maruel/actionmap/internal/router"
	"golang.org/x/mod/modfile"
)

const routerImport = "github.com/maruel/actionmap/internal/router"

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "routegen: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	out := flag.String("o", "modules_gen.go", "Output file, relative to -dir")
	dir := flag.String("dir", ".", "Root of the route tree")
	flag.Parse()
	if flag.NArg() > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	root, err := filepath.Abs(*dir)
	if err != nil {
		return err
	}
	pkgPath, err := importPath(root)
	if err != nil {
		return err
	}
	src, err := generate(context.Background(), os.DirFS(root), pkgPath, filepath.ToSlash(*out))
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, *out), src, 0o644) //nolint:gosec // G306: generated source is not secret
}

// importPath returns the import path of the package in dir, found from the
// enclosing go.mod.
func importPath(dir string) (string, error) {
	for d := dir; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod")) //nolint:gosec // G304: walking up from the working directory
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", fmt.Errorf("%s: no module directive", filepath.Join(d, "go.mod"))
			}
			rel, err := filepath.Rel(d, dir)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod, nil
			}
			return mod + "/" + filepath.ToSlash(rel), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		d = parent
	}
}

// sourceFile is what routegen learns from one route source file.
type sourceFile struct {
	rel     string
	pkgName string
	verbs   []string
}

// generate returns the formatted source of the Modules function for the
// route tree in fsys, whose root package has import path pkgPath.
func generate(ctx context.Context, fsys fs.FS, pkgPath, outName string) ([]byte, error) {
	var mu sync.Mutex
	var files []sourceFile
	err := router.Walk(ctx, fsys, ".", func(ctx context.Context, rel string) error {
		f := sourceFile{rel: rel}
		for seg := range strings.SplitSeq(rel, "/") {
			if !validName(seg) {
				return fmt.Errorf("%s: %q is not a valid Go file or directory name; name the file freely and declare its route with %s", rel, seg, router.PathDirective)
			}
		}
		if rel != outName {
			var err error
			if f.pkgName, f.verbs, err = parseFile(fsys, rel); err != nil {
				return err
			}
		}
		mu.Lock()
		files = append(files, f)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(files, func(f sourceFile) bool { return f.rel == outName }) {
		files = append(files, sourceFile{rel: outName})
	}
	slices.SortFunc(files, func(a, b sourceFile) int { return cmp.Compare(a.rel, b.rel) })

	rootPkg := path.Base(pkgPath)
	for _, f := range files {
		if path.Dir(f.rel) == "." && f.pkgName != "" {
			rootPkg = f.pkgName
			break
		}
	}
	imports := newImports()
	var body bytes.Buffer
	for _, f := range files {
		fmt.Fprintf(&body, "\tm[%s] = router.Module{", strconv.Quote(f.rel))
		qualifier := ""
		if dir := path.Dir(f.rel); dir != "." && len(f.verbs) > 0 {
			qualifier = imports.add(pkgPath+"/"+dir, f.pkgName) + "."
		}
		for i, v := range f.verbs {
			if i > 0 {
				body.WriteString(", ")
			}
			fmt.Fprintf(&body, "%q: %s%s", v, qualifier, v)
		}
		body.WriteString("}\n")
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by routegen; DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", rootPkg)
	buf.WriteString("import (\n")
	for _, imp := range imports.sorted() {
		if imp.alias != "" {
			fmt.Fprintf(&buf, "\t%s %q\n", imp.alias, imp.path)
		} else {
			fmt.Fprintf(&buf, "\t%q\n", imp.path)
		}
	}
	buf.WriteString(")\n\n")
	buf.WriteString("// Modules returns the compiled module of every route source file.\n")
	buf.WriteString("func Modules() router.StaticLoader {\n")
	buf.WriteString("\tm := router.StaticLoader{}\n")
	buf.Write(body.Bytes())
	buf.WriteString("\treturn m\n}\n")
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated invalid source: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

// parseFile returns the package name of rel and its exported top level
// declarations named after an HTTP method, sorted.
func parseFile(fsys fs.FS, rel string) (string, []string, error) {
	src, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return "", nil, err
	}
	if _, err := router.RoutePath(rel, src); err != nil {
		return "", nil, err
	}
	f, err := parser.ParseFile(token.NewFileSet(), rel, src, parser.SkipObjectResolution)
	if err != nil {
		return "", nil, err
	}
	var verbs []string
	add := func(name *ast.Ident) {
		if router.IsMethod(name.Name) {
			verbs = append(verbs, name.Name)
		}
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				add(d.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				continue
			}
			for _, spec := range d.Specs {
				for _, name := range spec.(*ast.ValueSpec).Names {
					add(name)
				}
			}
		}
	}
	slices.Sort(verbs)
	return f.Name.Name, slices.Compact(verbs), nil
}

// validName reports whether the go command accepts name as a file or
// directory name.
func validName(name string) bool {
	if name == "" || name[0] == '-' || name[0] == '.' {
		return false
	}
	for _, c := range name {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}

type importSpec struct {
	path  string
	alias string
}

// imports assigns each imported package a unique name.
type imports struct {
	byPath map[string]*importSpec
	names  map[string]bool
}

func newImports() *imports {
	i := &imports{byPath: map[string]*importSpec{}, names: map[string]bool{"router": true, "m": true}}
	i.byPath[routerImport] = &importSpec{path: routerImport}
	return i
}

// add imports p, whose package clause says name, and returns the name to
// qualify its identifiers with.
func (i *imports) add(p, name string) string {
	if s, ok := i.byPath[p]; ok {
		return cmp.Or(s.alias, name)
	}
	s := &importSpec{path: p}
	if i.names[name] || name != path.Base(p) {
		alias := name
		for n := 2; i.names[alias]; n++ {
			alias = name + strconv.Itoa(n)
		}
		s.alias = alias
		name = alias
	}
	i.names[name] = true
	i.byPath[p] = s
	return name
}

func (i *imports) sorted() []*importSpec {
	out := make([]*importSpec, 0, len(i.byPath))
	for _, s := range i.byPath {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *importSpec) int { return cmp.Compare(a.path, b.path) })
	return out
}
