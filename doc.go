// Package pathkit provides a uniform path-object abstraction that can
// address resources across many storage backends (local disks, object
// stores, archives, network shares, HTTP endpoints) while keeping the
// ergonomics of a conventional hierarchical path type.
//
// A [Path] is an immutable value tying a parsed address to a named
// backend protocol and a set of storage options. All path operations
// (component access, joining, pattern matching, equality) are pure
// string and segment manipulation; the actual backend I/O is delegated
// to the [Backend] capability interface resolved through [Path.FileSystem].
//
// # Protocols and flavours
//
// Every protocol is governed by a [Flavour]: the family of
// normalization rules for drives, roots and separators. POSIX-like,
// Windows-like, URL-like and archive-member flavours ship built in,
// and protocols map to flavours through the process-wide registry:
//
//	p, err := pathkit.New("s3://bucket/data/file.csv")
//	p.Name()    // "file.csv"
//	p.Suffix()  // ".csv"
//	p.Parent()  // s3://bucket/data
//
// Third-party backends register with [Register] at any point during
// the process lifetime; unregistered protocols remain usable with a
// best-effort default flavour.
//
// # Chained addresses
//
// A compound address references a resource nested inside another
// backend-addressed resource, separated by "::":
//
//	p, err := pathkit.New("member.csv::zip://archive.zip::s3://bucket/data.zip")
//
// The addressed sub-path is the first link; each following link is the
// container holding the previous one.
//
// # Identity and equality
//
// Two paths are equal when they address the same normalized sub-path
// on the same filesystem. Filesystem identity is derived statically
// from the protocol and the identity-relevant subset of the options
// (endpoint, account, host and port, base directory), so paths
// differing only in credentials or behavior flags compare equal.
// Protocols without an identity rule fall back to strict option
// comparison.
//
// # Backends
//
// Live backend handles are constructed lazily through the registered
// factory and shared process-wide via [HandleCache]. The in-memory
// backend (github.com/gobeaver/pathkit/backend/memory) and the local
// disk backend (github.com/gobeaver/pathkit/backend/local) register
// themselves on import:
//
//	import _ "github.com/gobeaver/pathkit/backend/local"
//
//	p, _ := pathkit.New("/var/data/report.txt")
//	fs, _ := p.FileSystem(ctx)
//	info, _ := fs.Info(ctx, p.SubPath())
package pathkit
