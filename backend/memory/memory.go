package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/pathkit"
	"github.com/gobwas/glob"
)

// memoryFile represents a file stored in memory
type memoryFile struct {
	content []byte
	modTime time.Time
}

// Adapter provides an in-memory implementation of pathkit.Backend.
// Useful for testing and scratch storage. Each adapter is an
// independent filesystem; the memory protocol has no filesystem
// identity, so differently-optioned paths get separate adapters.
type Adapter struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	dirs  map[string]time.Time
}

// New creates a new in-memory backend
func New() *Adapter {
	a := &Adapter{
		files: make(map[string]*memoryFile),
		dirs:  make(map[string]time.Time),
	}
	a.dirs[""] = time.Now()
	return a
}

// normalizeKey strips the root and collapses separators so lookups
// are independent of leading/trailing slashes
func normalizeKey(p string) string {
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, s := range parts {
		if s != "" && s != "." {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

func (a *Adapter) ensureParentDirs(key string) {
	for i, c := range key {
		if c == '/' {
			a.dirs[key[:i]] = time.Now()
		}
	}
}

// Open implements pathkit.Backend
func (a *Adapter) Open(ctx context.Context, subPath string, flag int) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := normalizeKey(subPath)

	if flag&(pathkit.WriteOnly|pathkit.Create) == 0 {
		a.mu.RLock()
		defer a.mu.RUnlock()
		f, exists := a.files[key]
		if !exists {
			if _, isDir := a.dirs[key]; isDir {
				return nil, &pathkit.AddressError{Op: "open", Address: subPath, Protocol: "memory", Err: pathkit.ErrIsDir}
			}
			return nil, &pathkit.AddressError{Op: "open", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotExist}
		}
		return &memHandle{Reader: bytes.NewReader(f.content)}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, isDir := a.dirs[key]; isDir && key != "" {
		return nil, &pathkit.AddressError{Op: "open", Address: subPath, Protocol: "memory", Err: pathkit.ErrIsDir}
	}
	f, exists := a.files[key]
	if !exists {
		if flag&pathkit.Create == 0 {
			return nil, &pathkit.AddressError{Op: "open", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotExist}
		}
		f = &memoryFile{modTime: time.Now()}
	}
	var buf bytes.Buffer
	if flag&pathkit.Truncate == 0 {
		buf.Write(f.content)
	}
	return &memHandle{
		Reader: bytes.NewReader(nil),
		buf:    &buf,
		commit: func(data []byte) {
			a.mu.Lock()
			a.ensureParentDirs(key)
			a.files[key] = &memoryFile{content: data, modTime: time.Now()}
			a.mu.Unlock()
		},
	}, nil
}

// memHandle is the stream returned by Open. Writes are buffered and
// committed on Close.
type memHandle struct {
	*bytes.Reader
	buf    *bytes.Buffer
	commit func([]byte)
	closed bool
}

func (h *memHandle) Write(p []byte) (int, error) {
	if h.buf == nil {
		return 0, pathkit.ErrUnsupportedOperation
	}
	return h.buf.Write(p)
}

func (h *memHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.buf != nil && h.commit != nil {
		h.commit(h.buf.Bytes())
	}
	return nil
}

// Info implements pathkit.Backend
func (a *Adapter) Info(ctx context.Context, subPath string) (*pathkit.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := normalizeKey(subPath)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if f, exists := a.files[key]; exists {
		return &pathkit.EntryInfo{
			Name:    baseName(key),
			Path:    key,
			Size:    int64(len(f.content)),
			ModTime: f.modTime,
		}, nil
	}
	if mod, exists := a.dirs[key]; exists {
		return &pathkit.EntryInfo{
			Name:    baseName(key),
			Path:    key,
			ModTime: mod,
			IsDir:   true,
		}, nil
	}
	return nil, &pathkit.AddressError{Op: "info", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotExist}
}

// List implements pathkit.Backend, returning the direct children of
// subPath sorted by name.
func (a *Adapter) List(ctx context.Context, subPath string) ([]pathkit.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := normalizeKey(subPath)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if _, exists := a.dirs[key]; !exists {
		if _, isFile := a.files[key]; isFile {
			return nil, &pathkit.AddressError{Op: "list", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotDir}
		}
		return nil, &pathkit.AddressError{Op: "list", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotExist}
	}

	prefix := key
	if prefix != "" {
		prefix += "/"
	}
	var out []pathkit.EntryInfo
	for k, f := range a.files {
		if isDirectChild(k, prefix) {
			out = append(out, pathkit.EntryInfo{
				Name:    baseName(k),
				Path:    k,
				Size:    int64(len(f.content)),
				ModTime: f.modTime,
			})
		}
	}
	for k, mod := range a.dirs {
		if k != "" && isDirectChild(k, prefix) {
			out = append(out, pathkit.EntryInfo{
				Name:    baseName(k),
				Path:    k,
				ModTime: mod,
				IsDir:   true,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Glob returns all files whose key matches the pattern, using
// "/"-separated glob syntax.
func (a *Adapter) Glob(ctx context.Context, pattern string) ([]pathkit.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := glob.Compile(normalizeKey(pattern), '/')
	if err != nil {
		return nil, &pathkit.AddressError{Op: "glob", Address: pattern, Protocol: "memory", Err: pathkit.ErrMalformedAddress}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []pathkit.EntryInfo
	for k, f := range a.files {
		if g.Match(k) {
			out = append(out, pathkit.EntryInfo{
				Name:    baseName(k),
				Path:    k,
				Size:    int64(len(f.content)),
				ModTime: f.modTime,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Mkdir implements pathkit.Backend
func (a *Adapter) Mkdir(ctx context.Context, subPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeKey(subPath)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, isFile := a.files[key]; isFile {
		return &pathkit.AddressError{Op: "mkdir", Address: subPath, Protocol: "memory", Err: pathkit.ErrExist}
	}
	a.ensureParentDirs(key)
	a.dirs[key] = time.Now()
	return nil
}

// Unlink implements pathkit.Backend
func (a *Adapter) Unlink(ctx context.Context, subPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeKey(subPath)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.files[key]; !exists {
		return &pathkit.AddressError{Op: "unlink", Address: subPath, Protocol: "memory", Err: pathkit.ErrNotExist}
	}
	delete(a.files, key)
	return nil
}

// Rename implements pathkit.Backend, moving a file or a whole
// directory subtree.
func (a *Adapter) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	oldKey := normalizeKey(oldPath)
	newKey := normalizeKey(newPath)

	a.mu.Lock()
	defer a.mu.Unlock()
	if f, exists := a.files[oldKey]; exists {
		a.ensureParentDirs(newKey)
		a.files[newKey] = f
		delete(a.files, oldKey)
		return nil
	}
	if _, exists := a.dirs[oldKey]; exists {
		oldPrefix := oldKey + "/"
		for k, f := range a.files {
			if strings.HasPrefix(k, oldPrefix) {
				a.files[newKey+"/"+k[len(oldPrefix):]] = f
				delete(a.files, k)
			}
		}
		for k, mod := range a.dirs {
			if k == oldKey || strings.HasPrefix(k, oldPrefix) {
				a.dirs[newKey+k[len(oldKey):]] = mod
				delete(a.dirs, k)
			}
		}
		a.ensureParentDirs(newKey)
		return nil
	}
	return &pathkit.AddressError{Op: "rename", Address: oldPath, Protocol: "memory", Err: pathkit.ErrNotExist}
}

func baseName(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func isDirectChild(key, prefix string) bool {
	if !strings.HasPrefix(key, prefix) || key == strings.TrimSuffix(prefix, "/") {
		return false
	}
	return !strings.Contains(key[len(prefix):], "/")
}
