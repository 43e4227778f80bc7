package pathkit_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gobeaver/pathkit"
	_ "github.com/gobeaver/pathkit/backend/local"
	_ "github.com/gobeaver/pathkit/backend/memory"
)

func TestMemoryBackendThroughPath(t *testing.T) {
	ctx := context.Background()

	p, err := pathkit.New("memory://reports/2026/summary.csv")
	if err != nil {
		t.Fatal(err)
	}
	fs, err := p.FileSystem(ctx)
	if err != nil {
		t.Fatal(err)
	}

	f, err := fs.Open(ctx, p.SubPath(), pathkit.WriteOnly|pathkit.Create|pathkit.Truncate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("date,total\n")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	// a second path with the same protocol and options reuses the handle
	q := pathkit.MustNew("memory://reports/2026/summary.csv")
	fs2, err := q.FileSystem(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fs2 != fs {
		t.Error("paths with equal storage options should share one backend handle")
	}

	r, err := fs2.Open(ctx, q.SubPath(), pathkit.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "date,total\n" {
		t.Errorf("read back %q", data)
	}

	// navigation produces the sub-path the backend understands
	parent := p.Parent()
	entries, err := fs.List(ctx, parent.SubPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "summary.csv" {
		t.Errorf("listed %+v", entries)
	}
}

func TestLocalBackendThroughPath(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	opts := pathkit.Options{"base_path": base}
	t.Cleanup(func() { pathkit.DefaultCache.Invalidate("file", opts) })

	p, err := pathkit.New("file:///notes/todo.txt", pathkit.WithOptions(opts))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := p.FileSystem(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Mkdir(ctx, p.Parent().SubPath()); err != nil {
		t.Fatal(err)
	}
	f, err := fs.Open(ctx, p.SubPath(), pathkit.WriteOnly|pathkit.Create|pathkit.Truncate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("ship it")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	// the write landed under the configured base directory
	onDisk, err := os.ReadFile(filepath.Join(base, "notes", "todo.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != "ship it" {
		t.Errorf("on-disk content = %q", onDisk)
	}

	info, err := fs.Info(ctx, p.SubPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "todo.txt" || info.Size != 7 {
		t.Errorf("info = %+v", info)
	}
}

// Distinct base directories are distinct filesystems: they must not
// compare equal, share a cached handle, or serve each other's files.
func TestLocalBackendsWithDistinctRoots(t *testing.T) {
	ctx := context.Background()
	baseA, baseB := t.TempDir(), t.TempDir()
	optsA := pathkit.Options{"base_path": baseA}
	optsB := pathkit.Options{"base_path": baseB}
	t.Cleanup(func() {
		pathkit.DefaultCache.Invalidate("file", optsA)
		pathkit.DefaultCache.Invalidate("file", optsB)
	})

	if err := os.WriteFile(filepath.Join(baseA, "secret.txt"), []byte("from A"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(baseB, "secret.txt"), []byte("from B"), 0o644); err != nil {
		t.Fatal(err)
	}

	pa := pathkit.MustNew("file:///secret.txt", pathkit.WithOptions(optsA))
	pb := pathkit.MustNew("file:///secret.txt", pathkit.WithOptions(optsB))
	if pa.Equal(pb) {
		t.Error("paths under different base directories should not be equal")
	}

	fsA, err := pa.FileSystem(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fsB, err := pb.FileSystem(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fsA == fsB {
		t.Fatal("different base directories must not share one handle")
	}

	readBack := func(fs pathkit.Backend, p *pathkit.Path) string {
		t.Helper()
		f, err := fs.Open(ctx, p.SubPath(), pathkit.ReadOnly)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if got := readBack(fsA, pa); got != "from A" {
		t.Errorf("root A read %q, want %q", got, "from A")
	}
	if got := readBack(fsB, pb); got != "from B" {
		t.Errorf("root B read %q, want %q", got, "from B")
	}
}

// file and local are spellings of the same filesystem, so paths under
// either protocol compare equal and resolve relative to each other.
func TestLocalProtocolAliases(t *testing.T) {
	a := pathkit.MustNew("file:///srv/data/set.parquet")
	b := pathkit.MustNew("local:///srv/data/set.parquet")
	if !a.Equal(b) {
		t.Error("file:// and local:// paths to the same address should be equal")
	}

	rel, err := a.RelativeTo(pathkit.MustNew("local:///srv"))
	if err != nil {
		t.Fatal(err)
	}
	if rel != "data/set.parquet" {
		t.Errorf("RelativeTo = %q", rel)
	}
}
