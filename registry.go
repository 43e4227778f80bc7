package pathkit

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
)

// BackendFactory creates a live backend handle from storage options.
// Factories may block on network I/O; the handle cache guarantees
// at-most-one concurrent construction per identical key.
type BackendFactory func(opts Options) (Backend, error)

// Entry describes one registered protocol: the flavour governing its
// address syntax, the factory producing live backend handles, and the
// default storage options merged under caller options.
type Entry struct {
	Flavour  Flavour
	Factory  BackendFactory
	Defaults Options
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Entry)

	// warned tracks unregistered protocols already reported, so the
	// soft-fallback warning fires once per protocol per process.
	warnedMu sync.Mutex
	warned   = make(map[string]struct{})
)

var protocolNameRe = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// ValidProtocolName reports whether name is a well-formed lowercase
// protocol identifier.
func ValidProtocolName(name string) bool {
	return protocolNameRe.MatchString(name)
}

// Register adds a protocol entry. Registration is idempotent: if the
// protocol is already registered the existing entry is kept. Use
// RegisterOverride to replace it. Registration at any point takes
// effect for all subsequent constructions.
func Register(name string, e Entry) error {
	if !ValidProtocolName(name) {
		return fmt.Errorf("register %q: %w", name, ErrMalformedAddress)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return nil
	}
	registry[name] = e
	return nil
}

// RegisterOverride adds a protocol entry, replacing any existing
// registration for the same name.
func RegisterOverride(name string, e Entry) error {
	if !ValidProtocolName(name) {
		return fmt.Errorf("register %q: %w", name, ErrMalformedAddress)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = e
	return nil
}

// Lookup returns the entry for a protocol. The second return value
// reports whether the protocol is specialized: false means the caller
// received a best-effort default entry for an unregistered protocol.
func Lookup(name string) (Entry, bool) {
	registryMu.RLock()
	e, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return e, true
	}
	return Entry{Flavour: URLFlavour}, false
}

// lookupFor resolves the entry used to parse one address. Unregistered
// protocols fall back to a default flavour chosen from the address
// shape, with a one-shot warning.
func lookupFor(protocol, address string) Entry {
	e, ok := Lookup(protocol)
	if ok {
		return e
	}
	if DetectProtocol(address) == "" {
		e.Flavour = LocalFlavour()
	}
	warnUnregistered(protocol)
	return e
}

func warnUnregistered(protocol string) {
	if protocol == "" || !defaultSettings().WarnUnregistered {
		return
	}
	warnedMu.Lock()
	_, seen := warned[protocol]
	warned[protocol] = struct{}{}
	warnedMu.Unlock()
	if !seen {
		slog.Warn("pathkit: protocol not registered, using default flavour",
			"protocol", protocol)
	}
}

// Protocols returns the sorted names of all registered protocols.
func Protocols() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()
	sort.Strings(names)
	return names
}

// isKnownProtocol reports whether name is registered, used by the
// chain decomposer to recognize bare protocol-only chain links.
func isKnownProtocol(name string) bool {
	registryMu.RLock()
	_, ok := registry[name]
	registryMu.RUnlock()
	return ok
}

func init() {
	for _, name := range []string{"file", "local"} {
		registry[name] = Entry{Flavour: LocalFlavour()}
	}
	for _, name := range []string{"memory", "data"} {
		registry[name] = Entry{Flavour: PosixFlavour}
	}
	for _, name := range []string{
		"http", "https", "s3", "s3a", "gs", "gcs", "az", "abfs", "adl",
		"sftp", "ssh", "smb", "ftp", "webhdfs", "webdav", "oci", "oss",
		"box", "dropbox",
	} {
		registry[name] = Entry{Flavour: URLFlavour}
	}
	for _, name := range []string{"zip", "tar"} {
		registry[name] = Entry{Flavour: ArchiveFlavour}
	}
}
