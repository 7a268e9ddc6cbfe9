package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/unyt-org/datex-go/pkg/precompiler"
)

// File is the compiled state of one workspace file. Files are snapshots:
// an update replaces the File rather than modifying it.
type File struct {
	Path    string
	Content string
	Version int

	// AST is nil when the file failed to parse, or failed in simple mode.
	AST         *precompiler.RichAst
	Err         error
	Diagnostics []Diagnostic
}

// Workspace holds the compiled files of a project. It is safe for
// concurrent use.
type Workspace struct {
	opts  Options
	limit int

	mu    sync.RWMutex
	files map[string]*File
}

// NewWorkspace returns an empty workspace compiling with opts.
func NewWorkspace(opts Options) *Workspace {
	return &Workspace{
		opts:  opts,
		limit: runtime.GOMAXPROCS(0),
		files: make(map[string]*File),
	}
}

// SetConcurrency bounds the number of files LoadAll compiles at once.
func (w *Workspace) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	w.limit = n
}

func (w *Workspace) build(path, content string, version int) *File {
	rich, err := Compile(content, w.opts)
	return &File{
		Path:        path,
		Content:     content,
		Version:     version,
		AST:         rich,
		Err:         err,
		Diagnostics: Diagnostics(err),
	}
}

// Open compiles content and stores it under path, replacing any earlier
// version.
func (w *Workspace) Open(path, content string) *File {
	f := w.build(path, content, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = f
	return f
}

// Update recompiles path with new content. A path that was not open is
// opened.
func (w *Workspace) Update(path, content string) *File {
	w.mu.RLock()
	version := 1
	if prev, ok := w.files[path]; ok {
		version = prev.Version + 1
	}
	w.mu.RUnlock()

	f := w.build(path, content, version)
	w.mu.Lock()
	defer w.mu.Unlock()
	// a concurrent Update may have won the race
	if cur, ok := w.files[path]; ok && cur.Version >= version {
		return cur
	}
	w.files[path] = f
	return f
}

// Remove forgets path.
func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// File returns the current snapshot of path.
func (w *Workspace) File(path string) (*File, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.files[path]
	return f, ok
}

// Files returns every file, sorted by path.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	out := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		out = append(out, f)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ErrorCount returns the number of diagnostics across all files.
func (w *Workspace) ErrorCount() int {
	n := 0
	for _, f := range w.Files() {
		n += len(f.Diagnostics)
	}
	return n
}

// LoadAll reads and compiles paths concurrently. Compile errors are kept
// on each File; only a failure to read a file or a cancelled ctx is
// returned.
func (w *Workspace) LoadAll(ctx context.Context, paths []string) error {
	logger := w.opts.logger()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)

	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			f := w.Update(path, string(content))
			logger.Debug("loaded file",
				slog.String("path", path),
				slog.Int("version", f.Version),
				slog.Int("diagnostics", len(f.Diagnostics)))
			return nil
		})
	}
	return g.Wait()
}
