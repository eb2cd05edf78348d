package router

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
)

// IsSource reports whether name is a route source file.
func IsSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// Walk calls visit for every route source file under root.
//
// Entries of a directory are visited concurrently so the order of calls is
// unspecified. Walk returns after every visit returned. The first error
// cancels the context passed to the remaining visits and is returned.
func Walk(ctx context.Context, fsys fs.FS, root string, visit func(ctx context.Context, rel string) error) error {
	return walkDir(ctx, fsys, root, "", visit)
}

func walkDir(ctx context.Context, fsys fs.FS, root, dir string, visit func(context.Context, string) error) error {
	entries, err := fs.ReadDir(fsys, path.Join(root, dir))
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		rel := path.Join(dir, e.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if e.IsDir() {
				return walkDir(ctx, fsys, root, rel, visit)
			}
			if !e.Type().IsRegular() || !IsSource(e.Name()) {
				return nil
			}
			return visit(ctx, rel)
		})
	}
	return g.Wait()
}
