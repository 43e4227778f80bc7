package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobeaver/pathkit"
)

// Config holds configuration for the local adapter
type Config struct {
	// BasePath is the directory all sub-paths resolve under
	BasePath string `mapstructure:"base_path"`
}

// Adapter provides a local-disk implementation of pathkit.Backend.
// Sub-paths resolve under a base directory; adapters rooted at the
// same directory share one filesystem identity.
type Adapter struct {
	base string
}

// New creates a local backend rooted at basePath. An empty basePath
// roots the adapter at the filesystem root.
func New(basePath string) (*Adapter, error) {
	if basePath == "" {
		basePath = string(os.PathSeparator)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	return &Adapter{base: abs}, nil
}

// FSID implements pathkit.HasFSID. The resolved base directory is part
// of the identity: spelled-differently options reaching the same root
// share a handle, different roots never do.
func (a *Adapter) FSID() string {
	if a.base == string(os.PathSeparator) {
		return "local"
	}
	return "local:" + a.base
}

func (a *Adapter) resolve(subPath string) string {
	return filepath.Join(a.base, filepath.FromSlash(subPath))
}

func wrapErr(op, subPath string, err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		err = pathkit.ErrNotExist
	case os.IsExist(err):
		err = pathkit.ErrExist
	}
	return &pathkit.AddressError{Op: op, Address: subPath, Protocol: "file", Err: err}
}

// Open implements pathkit.Backend
func (a *Adapter) Open(ctx context.Context, subPath string, flag int) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	osFlag := os.O_RDONLY
	if flag&pathkit.WriteOnly != 0 {
		osFlag = os.O_WRONLY
	}
	if flag&pathkit.Create != 0 {
		osFlag |= os.O_CREATE
	}
	if flag&pathkit.Truncate != 0 {
		osFlag |= os.O_TRUNC
	}
	if flag&pathkit.Append != 0 {
		osFlag |= os.O_APPEND
	}
	f, err := os.OpenFile(a.resolve(subPath), osFlag, 0o644)
	if err != nil {
		return nil, wrapErr("open", subPath, err)
	}
	return f, nil
}

// Info implements pathkit.Backend
func (a *Adapter) Info(ctx context.Context, subPath string) (*pathkit.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := os.Stat(a.resolve(subPath))
	if err != nil {
		return nil, wrapErr("info", subPath, err)
	}
	return entryInfo(subPath, st), nil
}

// List implements pathkit.Backend
func (a *Adapter) List(ctx context.Context, subPath string) ([]pathkit.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(a.resolve(subPath))
	if err != nil {
		return nil, wrapErr("list", subPath, err)
	}
	out := make([]pathkit.EntryInfo, 0, len(entries))
	for _, e := range entries {
		st, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, *entryInfo(filepath.ToSlash(filepath.Join(subPath, e.Name())), st))
	}
	return out, nil
}

// Mkdir implements pathkit.Backend
func (a *Adapter) Mkdir(ctx context.Context, subPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrapErr("mkdir", subPath, os.MkdirAll(a.resolve(subPath), 0o755))
}

// Unlink implements pathkit.Backend
func (a *Adapter) Unlink(ctx context.Context, subPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrapErr("unlink", subPath, os.Remove(a.resolve(subPath)))
}

// Rename implements pathkit.Backend
func (a *Adapter) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrapErr("rename", oldPath, os.Rename(a.resolve(oldPath), a.resolve(newPath)))
}

func entryInfo(subPath string, st fs.FileInfo) *pathkit.EntryInfo {
	return &pathkit.EntryInfo{
		Name:    st.Name(),
		Path:    subPath,
		Size:    st.Size(),
		ModTime: st.ModTime(),
		IsDir:   st.IsDir(),
	}
}
