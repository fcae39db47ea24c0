package catalog

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed data/*.yaml
var defaultFiles embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultFS exposes the embedded catalog documents.
func DefaultFS() fs.FS {
	return defaultFiles
}

// Default returns the catalog built from the embedded documents. It is
// loaded once and shared.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadFS(defaultFiles)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for static wiring; it panics if the embedded data
// is malformed.
func MustDefault() *Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}
