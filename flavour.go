package pathkit

import (
	"runtime"
	"strings"
)

// Flavour is the family of normalization rules (drive, root, separator
// and case semantics) governing one class of address syntax. Flavours
// are pure and safe for concurrent use.
type Flavour interface {
	// Name identifies the flavour family (posix, windows, url, archive).
	Name() string

	// Sep returns the separator the flavour joins with.
	Sep() string

	// CaseSensitive reports whether name comparison is case-sensitive.
	CaseSensitive() bool

	// Parse splits an address (with any protocol scheme already
	// stripped) into canonical components.
	Parse(address string) (Components, error)

	// ParseRelative parses a join segment. Like Parse, except that
	// authority-anchored flavours treat the segment as pure path
	// components: a relative segment never becomes a new authority.
	ParseRelative(segment string) (Components, error)

	// Join renders components back into an address string. The result
	// re-parses to equal components.
	Join(c Components) string

	// NormCase returns the comparison form of a segment: unchanged for
	// case-sensitive flavours, folded for case-insensitive ones.
	// Original case is always preserved in stored components.
	NormCase(s string) string
}

// Flavour singletons. Flavours carry no state, one value per family is
// enough for the whole process.
var (
	PosixFlavour   Flavour = posixFlavour{}
	WindowsFlavour Flavour = windowsFlavour{}
	URLFlavour     Flavour = urlFlavour{}
	ArchiveFlavour Flavour = archiveFlavour{}
)

// LocalFlavour returns the flavour matching the host OS path
// convention, used for addresses without any scheme.
func LocalFlavour() Flavour {
	if runtime.GOOS == "windows" {
		return WindowsFlavour
	}
	return PosixFlavour
}

// splitSegments splits s on sep, dropping empty parts produced by
// duplicate or trailing separators and current-directory dots.
func splitSegments(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	segs := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			segs = append(segs, p)
		}
	}
	if len(segs) == 0 {
		return nil
	}
	return segs
}

// splitName partitions a final segment into stem and suffix at the
// last dot. A leading dot (dot-file) or trailing dot yields no suffix.
func splitName(name string) (stem, suffix string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// splitSuffixes returns all dot-suffixes of a final segment, e.g.
// "a.tar.gz" -> [".tar", ".gz"].
func splitSuffixes(name string) []string {
	if strings.HasSuffix(name, ".") {
		return nil
	}
	name = strings.TrimPrefix(name, ".")
	if !strings.Contains(name, ".") {
		return nil
	}
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		out = append(out, "."+p)
	}
	return out
}
