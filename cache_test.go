package pathkit

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubBackend is a minimal Backend for cache tests.
type stubBackend struct {
	id   int
	fsid string
}

func (s *stubBackend) Open(ctx context.Context, subPath string, flag int) (io.ReadWriteCloser, error) {
	return nil, ErrUnsupportedOperation
}
func (s *stubBackend) Info(ctx context.Context, subPath string) (*EntryInfo, error) {
	return nil, ErrNotExist
}
func (s *stubBackend) List(ctx context.Context, subPath string) ([]EntryInfo, error) {
	return nil, nil
}
func (s *stubBackend) Mkdir(ctx context.Context, subPath string) error  { return nil }
func (s *stubBackend) Unlink(ctx context.Context, subPath string) error { return nil }
func (s *stubBackend) Rename(ctx context.Context, o, n string) error    { return nil }

type fsidStub struct{ stubBackend }

func (s *fsidStub) FSID() string { return s.fsid }

func registerStub(t *testing.T, name string, factory BackendFactory) {
	t.Helper()
	if err := RegisterOverride(name, Entry{Flavour: PosixFlavour, Factory: factory}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { deleteProtocol(name) })
}

func TestHandleCacheSharing(t *testing.T) {
	var constructions atomic.Int32
	registerStub(t, "stubfs", func(opts Options) (Backend, error) {
		return &stubBackend{id: int(constructions.Add(1))}, nil
	})

	cache := NewHandleCache()
	ctx := context.Background()

	a, err := cache.GetOrCreate(ctx, "stubfs", Options{"x": "1"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := cache.GetOrCreate(ctx, "stubfs", Options{"x": "1"})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("identical keys should share one handle")
	}
	if got := constructions.Load(); got != 1 {
		t.Errorf("constructions = %d, want 1", got)
	}

	// different options (no identity rule for stubfs) get a new handle
	c, err := cache.GetOrCreate(ctx, "stubfs", Options{"x": "2"})
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("different keys should not share a handle")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestHandleCacheSingleFlight(t *testing.T) {
	var constructions atomic.Int32
	registerStub(t, "slowfs", func(opts Options) (Backend, error) {
		constructions.Add(1)
		time.Sleep(20 * time.Millisecond)
		return &stubBackend{}, nil
	})

	cache := NewHandleCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	handles := make([]Backend, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := cache.GetOrCreate(ctx, "slowfs", Options{"k": "v"})
			if err != nil {
				t.Error(err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	if got := constructions.Load(); got != 1 {
		t.Errorf("constructions = %d, want 1", got)
	}
	for _, h := range handles[1:] {
		if h != handles[0] {
			t.Error("concurrent callers should share the in-flight construction")
		}
	}
}

func TestHandleCacheFailureDoesNotPoison(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("connect refused")
	registerStub(t, "flakyfs", func(opts Options) (Backend, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return &stubBackend{}, nil
	})

	cache := NewHandleCache()
	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, "flakyfs", nil); !errors.Is(err, boom) {
		t.Fatalf("first call error = %v, want %v", err, boom)
	}
	h, err := cache.GetOrCreate(ctx, "flakyfs", nil)
	if err != nil {
		t.Fatalf("second call should retry construction: %v", err)
	}
	if h == nil {
		t.Fatal("second call returned no handle")
	}
}

func TestHandleCacheInvalidate(t *testing.T) {
	var constructions atomic.Int32
	registerStub(t, "rotfs", func(opts Options) (Backend, error) {
		return &stubBackend{id: int(constructions.Add(1))}, nil
	})

	cache := NewHandleCache()
	ctx := context.Background()

	a, _ := cache.GetOrCreate(ctx, "rotfs", Options{"token": "old"})
	cache.Invalidate("rotfs", Options{"token": "old"})
	b, _ := cache.GetOrCreate(ctx, "rotfs", Options{"token": "old"})
	if a == b {
		t.Error("invalidated key should construct a fresh handle")
	}
}

func TestHandleCacheBackendFSIDAlias(t *testing.T) {
	registerStub(t, "fsidfs", func(opts Options) (Backend, error) {
		return &fsidStub{stubBackend{fsid: "shared-backend"}}, nil
	})

	cache := NewHandleCache()
	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, "fsidfs", Options{"a": "1"}); err != nil {
		t.Fatal(err)
	}
	// the declared fsid is indexed as an alias key
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want entry plus fsid alias", cache.Len())
	}
}

func TestHandleCacheNoFactory(t *testing.T) {
	cache := NewHandleCache()
	if _, err := cache.GetOrCreate(context.Background(), "s3", nil); !errors.Is(err, ErrNoBackendFactory) {
		t.Errorf("error = %v, want ErrNoBackendFactory", err)
	}
}

func TestHandleCacheContextCancelled(t *testing.T) {
	registerStub(t, "ctxfs", func(opts Options) (Backend, error) {
		return &stubBackend{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cache := NewHandleCache()
	if _, err := cache.GetOrCreate(ctx, "ctxfs", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
