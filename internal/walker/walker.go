// Package walker is the file walker and per-file worker pool: it discovers
// every source file under a root path and fans each one out through the
// full read -> parse -> visit -> penalize pipeline, in parallel, with no
// shared mutable state between workers.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/skylos-dev/skylos/internal/confidence"
	"github.com/skylos-dev/skylos/internal/danger"
	"github.com/skylos-dev/skylos/internal/entrypoint"
	"github.com/skylos-dev/skylos/internal/framework"
	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/logging"
	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/pragma"
	"github.com/skylos-dev/skylos/internal/pyparse"
	"github.com/skylos-dev/skylos/internal/quality"
	"github.com/skylos-dev/skylos/internal/secrets"
	"github.com/skylos-dev/skylos/internal/testkind"
	"github.com/skylos-dev/skylos/internal/visitor"
)

// extension is the source file suffix the walker recurses for. The
// analyzer targets a single Python-like language, so this is fixed rather
// than configurable.
const extension = ".py"

// Options gates the optional single-file passes; the core definition and
// reference visitor always runs.
type Options struct {
	Secrets bool
	Danger  bool
	Quality bool
}

// Walk discovers every source file under root and processes them with a
// data-parallel worker pool sized to GOMAXPROCS via errgroup. A file that
// fails to read or parse never aborts the run; it just contributes less.
func Walk(ctx context.Context, root string, opts Options) ([]model.FileResult, error) {
	files, err := discover(root)
	if err != nil {
		return nil, err
	}

	results := make([]model.FileResult, len(files))
	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = processFile(file, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warnf("walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// processFile runs one file end-to-end. Read failure yields an empty
// result; parse failure still yields the regex-based secret findings,
// matching the failure-containment rule that a file's AST-derived output
// is the only thing lost when it can't be parsed.
func processFile(file string, opts Options) model.FileResult {
	result := model.FileResult{File: file}

	source, err := os.ReadFile(file)
	if err != nil {
		logging.Warnf("read %s: %v", file, err)
		return result
	}

	lines := lineindex.New(source)
	ignored := pragma.Scan(source)

	if opts.Secrets {
		result.Secrets = secrets.Scan(file, source, ignored)
	}

	mod, err := pyparse.Parse(source)
	if err != nil {
		logging.Warnf("parse %s: %v", file, err)
		return result
	}

	moduleName := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	v := visitor.New(file, moduleName, lines)
	v.Visit(mod)

	fw := framework.Classify(mod, lines)
	tk := testkind.Classify(file, mod, lines)
	reached := entrypoint.Detect(mod.Body)

	signals := confidence.Signals{
		IgnoredLines:   ignored,
		TestFile:       tk.IsTestFile,
		TestLines:      tk.TestLines,
		FrameworkLines: fw.FrameworkLines,
	}

	defs := make([]model.Definition, len(v.Defs))
	for i, d := range v.Defs {
		d.Confidence = confidence.Apply(d.SimpleName, d.Line, d.InInit, string(d.DefType), signals)
		defs[i] = d
	}
	result.Definitions = defs

	refs := v.Refs
	for name := range reached {
		refs = append(refs, model.Reference{Name: name, File: file})
		refs = append(refs, model.Reference{Name: moduleName + "." + name, File: file})
	}
	result.References = refs

	if opts.Danger {
		result.Danger = danger.Scan(file, mod, lines, ignored)
	}
	if opts.Quality {
		result.Quality = quality.Scan(file, mod, lines, ignored)
	}

	return result
}
