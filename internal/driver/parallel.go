package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ionasm/internal/diag"
	"ionasm/internal/source"
)

// DirResult is the outcome of compiling one file from a directory batch.
type DirResult struct {
	Path   string
	Result *Result
	// Err is the load or compile failure; the diagnostics, when any were
	// produced, live in Result.Bag.
	Err error
}

// listSourceFiles returns all *.ion files under dir, sorted for a
// deterministic batch order.
func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".ion") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CompileDir compiles every *.ion file under dir in parallel, jobs files at
// a time (GOMAXPROCS when jobs <= 0). Per-file failures land in the
// corresponding DirResult; only walk errors and context cancellation abort
// the batch.
func CompileDir(ctx context.Context, dir string, opts Options, jobs int) ([]DirResult, error) {
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, so the slice needs no lock.
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := CompileFile(path, opts)
			if res == nil {
				// The file never loaded; synthesize a bag so the caller has
				// one rendering path for every outcome.
				bag := diag.NewBag(1)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.UnknownCode,
					Message:  "failed to load file: " + err.Error(),
					Primary:  source.Span{},
				})
				res = &Result{Bag: bag}
			}
			results[i] = DirResult{Path: path, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
