package pathkit

import (
	"context"
	"io"
	"time"
)

// EntryInfo represents file/directory metadata returned by a backend
type EntryInfo struct {
	Name     string
	Path     string
	Size     int64
	ModTime  time.Time
	IsDir    bool
	Metadata map[string]string
}

// Open flags understood by Backend.Open. Mirrors os.O_* semantics for
// the subset backends can portably support.
const (
	ReadOnly  = 0x0
	WriteOnly = 0x1
	Create    = 0x40
	Truncate  = 0x200
	Append    = 0x400
)

// Backend is the capability interface every live backend handle
// implements. The path core never performs I/O itself: it resolves
// which backend to call and with which normalized sub-path, and
// delegates everything else here.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Open returns a stream for the file at subPath.
	Open(ctx context.Context, subPath string, flag int) (io.ReadWriteCloser, error)

	// Info returns metadata for the entry at subPath.
	Info(ctx context.Context, subPath string) (*EntryInfo, error)

	// List returns the entries directly under subPath.
	List(ctx context.Context, subPath string) ([]EntryInfo, error)

	// Mkdir creates a directory (and parents if needed).
	Mkdir(ctx context.Context, subPath string) error

	// Unlink removes a file.
	Unlink(ctx context.Context, subPath string) error

	// Rename moves an entry within the backend.
	Rename(ctx context.Context, oldPath, newPath string) error
}

// ============================================================================
// Optional Capability Interfaces
// ============================================================================
// Backends expose optional capabilities through extra interfaces.
// Use type assertion to check for support:
//
//	if w, ok := backend.(CanWatch); ok {
//	    events, _ := w.Watch(ctx, "dir")
//	}

// HasFSID indicates the backend can report its own filesystem
// identity. When declared, it is preferred over the static identity
// table for handle sharing.
type HasFSID interface {
	FSID() string
}

// Event describes one change observed by a watching backend.
type Event struct {
	Path string
	Op   uint32
}

// CanWatch indicates the backend supports change notification.
type CanWatch interface {
	Watch(ctx context.Context, subPath string) (<-chan Event, error)
}
