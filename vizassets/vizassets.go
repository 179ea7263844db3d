// Package vizassets serves the JavaScript renderers bundled into the binary.
//
// Assets are read once into an immutable map on first use. Reload discards
// the map so that the next lookup reads the files again.
package vizassets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"oss.terrastruct.com/util-go/xdefer"
)

const (
	GanttChart = "gantt_chart"
	Rects      = "rects"
)

var ErrNotFound = errors.New("asset not found")

//go:embed assets/*.js
var embedded embed.FS

type Registry struct {
	fsys fs.FS

	mu     sync.RWMutex
	loaded bool
	assets map[string]string
	err    error
}

// New returns a registry over the .js files at the root of fsys. Asset names
// are file names without the extension.
func New(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys}
}

var defaultRegistry = New(mustSub(embedded, "assets"))

func Default() *Registry {
	return defaultRegistry
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func (r *Registry) snapshot() (map[string]string, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.assets, r.err
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		r.assets, r.err = readAll(r.fsys)
		r.loaded = true
	}
	return r.assets, r.err
}

func readAll(fsys fs.FS) (_ map[string]string, err error) {
	defer xdefer.Errorf(&err, "failed to load assets")

	paths, err := fs.Glob(fsys, "*.js")
	if err != nil {
		return nil, err
	}
	assets := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		assets[strings.TrimSuffix(path.Base(p), ".js")] = string(b)
	}
	return assets, nil
}

// Get returns the source of the named asset.
func (r *Registry) Get(name string) (string, error) {
	assets, err := r.snapshot()
	if err != nil {
		return "", err
	}
	src, ok := assets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return src, nil
}

// MustGet is Get for assets compiled into the binary. A missing one means
// the binary was built wrong.
func (r *Registry) MustGet(name string) string {
	src, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return src
}

func (r *Registry) Names() ([]string, error) {
	assets, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Reload clears the cache. The next lookup reads the assets again.
func (r *Registry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.assets = nil
	r.err = nil
}

func Get(name string) (string, error) {
	return defaultRegistry.Get(name)
}

func MustGet(name string) string {
	return defaultRegistry.MustGet(name)
}

func Names() ([]string, error) {
	return defaultRegistry.Names()
}

func Reload() {
	defaultRegistry.Reload()
}
