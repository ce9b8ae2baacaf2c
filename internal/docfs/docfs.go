// SPDX-License-Identifier: MPL-2.0

// Package docfs reads document files and materializes their references.
//
// Referenced files are discovered breadth first. Each level of the crawl is
// read and parsed concurrently, then every reference is linked to its parsed
// document. A file referenced more than once is read once, even through
// differently spelled paths, and reference cycles become pointer cycles that
// the document reader skips. Skipping documents already loaded by id is left
// to document.Reader.
package docfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/invowk/umlgraph/pkg/document"
)

// DefaultMaxConcurrency bounds the number of files read at once.
const DefaultMaxConcurrency = 8

// ErrNoPath is returned for a local reference without a path.
var ErrNoPath = errors.New("reference has no path")

type (
	// Loader reads documents and their references from a filesystem.
	Loader struct {
		readFile       func(string) ([]byte, error)
		identity       func(string) string
		logger         *log.Logger
		maxConcurrency int
		rootFormat     document.Format
	}

	// Option configures a Loader.
	Option func(*Loader)

	// File is one parsed document file.
	File struct {
		Path     string
		Format   document.Format
		Document *document.Document
	}

	// Result is the outcome of Load: the root document with its references
	// linked, and every file that was read, root first.
	Result struct {
		Root  *document.Document
		Files []*File
	}

	edge struct {
		ref *document.Reference
		key string
	}
)

// WithFS reads files from fsys instead of the host filesystem. Paths are
// cleaned and must be valid fs.FS paths.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.readFile = func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, filepath.ToSlash(filepath.Clean(name)))
		}
		l.identity = filepath.Clean
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxConcurrency bounds the number of files read at once.
func WithMaxConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxConcurrency = n
		}
	}
}

// WithRootFormat parses the root file as f instead of picking the format
// from its extension. Referenced files still use their extensions.
func WithRootFormat(f document.Format) Option {
	return func(l *Loader) { l.rootFormat = f }
}

// New returns a Loader reading from the host filesystem.
func New(opts ...Option) *Loader {
	l := &Loader{
		readFile:       os.ReadFile,
		identity:       absPath,
		logger:         log.Default(),
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the document at path and every document it references,
// directly or indirectly. References that already carry a document are left
// as they are.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	root, err := l.readOne(path, l.rootFormat)
	if err != nil {
		return nil, err
	}

	// files is keyed by file identity, so ./a.json and /abs/a.json are one file
	files := map[string]*File{l.identity(root.Path): root}
	result := &Result{Root: root.Document, Files: []*File{root}}
	level := []*File{root}

	for len(level) > 0 {
		var edges []edge
		var toRead []string
		queued := map[string]bool{}
		for _, f := range level {
			for _, ref := range f.Document.PendingReferences() {
				target, ok := l.targetPath(f.Path, ref)
				if !ok {
					continue
				}
				key := l.identity(target)
				edges = append(edges, edge{ref: ref, key: key})
				if files[key] == nil && !queued[key] {
					queued[key] = true
					toRead = append(toRead, target)
				}
			}
		}

		next, err := l.readAll(ctx, toRead)
		if err != nil {
			return nil, err
		}
		for _, f := range next {
			files[l.identity(f.Path)] = f
			result.Files = append(result.Files, f)
		}
		for _, e := range edges {
			e.ref.Document = files[e.key].Document
		}
		level = next
	}
	return result, nil
}

// targetPath returns the cleaned path of a local reference relative to the
// referencing file.
func (l *Loader) targetPath(from string, ref *document.Reference) (string, bool) {
	if ref.Location != "" && ref.Location != document.LocationLocal {
		l.logger.Warn("Skipping reference to a non-local document", "name", ref.Name, "location", ref.Location)
		return "", false
	}
	if ref.Path == "" {
		l.logger.Warn("Skipping reference", "name", ref.Name, "error", ErrNoPath)
		return "", false
	}
	if filepath.IsAbs(ref.Path) {
		return filepath.Clean(ref.Path), true
	}
	return filepath.Join(filepath.Dir(from), ref.Path), true
}

func (l *Loader) readAll(ctx context.Context, paths []string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	p := pool.NewWithResults[*File]().WithContext(ctx).WithMaxGoroutines(l.maxConcurrency)
	for _, path := range paths {
		p.Go(func(ctx context.Context) (*File, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return l.readOne(path, "")
		})
	}
	read, err := p.Wait()
	if err != nil {
		return nil, err
	}

	// keep discovery order regardless of completion order
	byPath := make(map[string]*File, len(read))
	for _, f := range read {
		byPath[f.Path] = f
	}
	out := make([]*File, 0, len(paths))
	for _, path := range paths {
		out = append(out, byPath[path])
	}
	return out, nil
}

// absPath identifies a host file by its absolute path, falling back to the
// cleaned path when the working directory is unavailable.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (l *Loader) readOne(path string, format document.Format) (*File, error) {
	path = filepath.Clean(path)
	if format == "" {
		f, err := document.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := document.Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Read document", "path", path, "id", doc.ID, "checksum", doc.ChecksumString())
	return &File{Path: path, Format: format, Document: doc}, nil
}
