package output

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/observability"
)

// File describes an emitted image file. Once recorded, the file belongs to
// nobody: this process never deletes or rewrites it.
type File struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	MIMEType  string    `json:"mime_type"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultRecent is how many recent files a registry keeps by default.
const DefaultRecent = 256

// Registry records the files a process has emitted.
//
// It counts every emission but keeps only the most recent entries, so a
// long-running server holds bounded memory. It is safe for concurrent use.
// Recording a file is the point at which the packager releases ownership
// of it.
type Registry struct {
	mu    sync.Mutex
	limit int
	total int
	next  int    // ring slot for the next entry once files is full
	files []File // at most limit entries
}

// NewRegistry returns an empty registry keeping DefaultRecent entries.
func NewRegistry() *Registry {
	return NewRegistryWithLimit(DefaultRecent)
}

// NewRegistryWithLimit returns an empty registry keeping the limit most
// recent entries. A limit below 1 is treated as 1.
func NewRegistryWithLimit(limit int) *Registry {
	if limit < 1 {
		limit = 1
	}
	return &Registry{limit: limit}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Emit creates a uniquely named file in dir (os.TempDir() when empty) whose
// name ends in ext, writes data to it, closes it and records it.
//
// A failed create or write yields IO_FAILURE; a partially written file is
// removed before returning, so failures leave nothing behind.
func (r *Registry) Emit(ctx context.Context, dir, ext, mimeType string, data []byte) (File, error) {
	f, err := os.CreateTemp(dir, "svgmcp-*"+ext)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeIO, err, "create output file")
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return File{}, errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return File{}, errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}

	file := File{
		ID:        uuid.New(),
		Path:      path,
		MIMEType:  mimeType,
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
	}

	r.record(file)

	observability.Output().OnFileEmitted(ctx, path, len(data))
	return file, nil
}

func (r *Registry) record(file File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	if len(r.files) < r.limit {
		r.files = append(r.files, file)
		return
	}
	r.files[r.next] = file
	r.next = (r.next + 1) % r.limit
}

// List returns a snapshot of the most recent files, oldest first.
func (r *Registry) List() []File {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]File, 0, len(r.files))
	out = append(out, r.files[r.next:]...)
	return append(out, r.files[:r.next]...)
}

// Len returns the number of files emitted over the registry's lifetime,
// including those no longer listed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
