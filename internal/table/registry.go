package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with no registered reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Reader converts an input stream into a Table.
type Reader interface {
	Read(name string, r io.Reader) (*Table, error)
	Format() string
}

// Registry holds readers keyed by file extension.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate table format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// DefaultRegistry returns a registry with the CSV and XLSX readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CSVReader{})
	r.Register(XLSXReader{})
	return r
}

// ReadFile opens path and reads it with the reader matching its extension.
// name labels the table in errors.
func (r *Registry) ReadFile(name, path string) (*Table, error) {
	rd := r.Get(filepath.Ext(path))
	if rd == nil {
		return nil, fmt.Errorf("%s %s: %w", name, path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	return rd.Read(name, f)
}
