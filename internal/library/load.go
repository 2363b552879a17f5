package library

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Tungsten-180/nasal-ls/internal/log"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

// Source is a tree of documents on disk.
type Source interface {
	workspace.FileReader
	workspace.SourceLister
	URI(relPath string) string
}

// LoadResult reports a LoadDir run. Malformed maps the URI of every file
// that was indexed without scopes to its scope error.
type LoadResult struct {
	URIs      []string
	Malformed map[string]error
}

// LoadDir reads every file of src with up to workers parallel reads and
// opens them in listing order. A read failure aborts the load; scope
// errors do not.
func (l *Library) LoadDir(ctx context.Context, src Source, workers int) (*LoadResult, error) {
	paths, err := src.Sources()
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = 1
	}

	texts := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := src.ReadFile(p)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "load sources")
	}

	res := &LoadResult{Malformed: make(map[string]error)}
	for i, p := range paths {
		uri := src.URI(p)
		if err := l.Open(uri, texts[i]); err != nil {
			res.Malformed[uri] = err
		}
		res.URIs = append(res.URIs, uri)
	}

	log.Index("loaded %d files, %d malformed", len(res.URIs), len(res.Malformed))
	return res, nil
}
