// Package loader reads docline configuration sources into generic maps.
//
// Sources are TOML files (with optional @include chains) and DOCLINE_*
// environment variables. Maps from several sources are combined with
// DeepMerge before being decoded into a typed config.Config.
package loader

import (
	"io"
	"io/fs"
	"os"
)

// Loader is implemented by every configuration source.
type Loader interface {
	// Load returns the source as a map, or nil, nil when the source is absent.
	Load() (map[string]any, error)
}

// ReaderLoader reads configuration from an io.Reader.
type ReaderLoader interface {
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem abstracts file access so tests can use in-memory files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the host file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the host file system.
func DefaultFS() FileSystem {
	return OSFS{}
}
