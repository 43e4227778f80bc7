package pathkit

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/glob"
)

// ErrNotRelative is returned by RelativeTo when the receiver is not
// inside the base path.
var ErrNotRelative = errors.New("path is not relative to base")

// Path is an immutable path value addressing a resource on a named
// backend protocol. It exposes the conventional hierarchical path API
// purely through segment manipulation; no method performs I/O except
// FileSystem, which resolves the live backend handle.
//
// Derived operations (Parent, Join, WithName, ...) return new Path
// values. Path is safe for concurrent use.
type Path struct {
	// links holds the decomposed chain, addressed sub-path first.
	// Single-protocol addresses have exactly one link.
	links []Link

	// comps are the parsed components of the addressed link.
	comps Components

	flavour Flavour

	// prefixScheme records whether String renders the protocol scheme
	// in front of the addressed link.
	prefixScheme bool

	strOnce sync.Once
	str     string
}

// PathOption configures path construction.
type PathOption func(*pathConfig)

type pathConfig struct {
	protocol     string
	options      Options
	chainOptions map[string]Options
	maxDepth     int
}

// WithProtocol demands a protocol for the addressed segment. If the
// address also encodes a different scheme, construction fails with
// ErrProtocolMismatch.
func WithProtocol(protocol string) PathOption {
	return func(c *pathConfig) { c.protocol = protocol }
}

// WithOptions attaches storage options to the addressed segment.
func WithOptions(opts Options) PathOption {
	return func(c *pathConfig) { c.options = opts.Clone() }
}

// WithChainOptions attaches storage options per protocol for chained
// addresses, e.g. credentials for the outer store of an archive.
func WithChainOptions(m map[string]Options) PathOption {
	return func(c *pathConfig) {
		c.chainOptions = make(map[string]Options, len(m))
		for k, v := range m {
			c.chainOptions[k] = v.Clone()
		}
	}
}

// WithMaxChainDepth overrides the configured chain depth limit for
// this construction.
func WithMaxChainDepth(n int) PathOption {
	return func(c *pathConfig) { c.maxDepth = n }
}

// New parses an address string into a Path. The address may be a plain
// path ("/a/b"), a scheme-prefixed address ("s3://bucket/key") or a
// chained address ("member.csv::s3://bucket/archive.zip").
func New(address string, opts ...PathOption) (*Path, error) {
	cfg := pathConfig{maxDepth: defaultSettings().MaxChainDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.protocol != "" && !ValidProtocolName(cfg.protocol) {
		return nil, addrErr("new", address, cfg.protocol, ErrUnknownProtocol)
	}

	links, err := Unchain(address, cfg.protocol, cfg.chainOptions, cfg.maxDepth)
	if err != nil {
		return nil, err
	}
	if cfg.options != nil {
		links[0].Options = cfg.options.Merge(links[0].Options)
	}

	var flavour Flavour
	switch {
	case links[0].Protocol != "":
		flavour = lookupFor(links[0].Protocol, links[0].raw).Flavour
	case len(links) > 1:
		// unprefixed member inside a container
		flavour = ArchiveFlavour
	default:
		links[0].Protocol = defaultSettings().DefaultProtocol
		flavour = lookupFor(links[0].Protocol, links[0].raw).Flavour
	}
	if links[0].Options == nil {
		links[0].Options = Options{}
	}

	comps, err := flavour.Parse(links[0].Address)
	if err != nil {
		return nil, err
	}

	return &Path{
		links:        links,
		comps:        comps,
		flavour:      flavour,
		prefixScheme: DetectProtocol(links[0].raw) != "" || (flavour.Name() == "url" && links[0].Protocol != ""),
	}, nil
}

// MustNew is New for statically known addresses; it panics on error.
func MustNew(address string, opts ...PathOption) *Path {
	p, err := New(address, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// derive produces a new Path sharing protocol, options, container
// links and flavour, with replaced components.
func (p *Path) derive(comps Components) *Path {
	links := make([]Link, len(p.links))
	copy(links, p.links)
	links[0].Address = p.flavour.Join(comps)
	links[0].raw = ""
	return &Path{
		links:        links,
		comps:        comps,
		flavour:      p.flavour,
		prefixScheme: p.prefixScheme,
	}
}

// Protocol returns the protocol of the addressed segment. Empty only
// for unprefixed members of chained addresses.
func (p *Path) Protocol() string { return p.links[0].Protocol }

// Options returns a copy of the storage options of the addressed
// segment.
func (p *Path) Options() Options { return p.links[0].Options.Clone() }

// Chain returns a copy of the decomposed chain, addressed link first.
func (p *Path) Chain() []Link {
	out := make([]Link, len(p.links))
	copy(out, p.links)
	for i := range out {
		out[i].Options = out[i].Options.Clone()
	}
	return out
}

// Components returns a copy of the parsed components of the addressed
// segment.
func (p *Path) Components() Components { return p.comps.clone() }

// Flavour returns the flavour governing the addressed segment.
func (p *Path) Flavour() Flavour { return p.flavour }

// Drive returns the drive component, or "" for flavours without a
// drive concept.
func (p *Path) Drive() string { return p.comps.Drive }

// Root returns the root separator, or "" for relative addresses.
func (p *Path) Root() string { return p.comps.Root }

// Anchor returns the concatenation of drive and root.
func (p *Path) Anchor() string { return p.comps.Anchor() }

// IsAbsolute reports whether the path is absolute under its flavour.
func (p *Path) IsAbsolute() bool { return p.comps.IsAbsolute() }

// Parts returns the path components, starting with the anchor when
// the path is absolute.
func (p *Path) Parts() []string {
	var out []string
	if a := p.comps.Anchor(); a != "" {
		out = append(out, a)
	}
	return append(out, p.comps.Segments...)
}

// Name returns the final segment, or "" for a path with no segments.
func (p *Path) Name() string { return p.comps.Name() }

// Stem returns the final segment without its suffix.
func (p *Path) Stem() string {
	stem, _ := splitName(p.Name())
	return stem
}

// Suffix returns the dot-suffix of the final segment, including the
// dot, or "". Dot-files have no suffix.
func (p *Path) Suffix() string {
	_, suffix := splitName(p.Name())
	return suffix
}

// Suffixes returns all dot-suffixes of the final segment, e.g.
// [".tar", ".gz"] for "a.tar.gz".
func (p *Path) Suffixes() []string {
	return splitSuffixes(p.Name())
}

// Parent returns the immediate parent. The parent of a root or
// segment-less path is the path itself.
func (p *Path) Parent() *Path {
	comps, ok := p.comps.parent()
	if !ok {
		return p
	}
	return p.derive(comps)
}

// Parents returns the ancestors ordered from immediate parent to the
// anchor. The slice is freshly allocated on every call.
func (p *Path) Parents() []*Path {
	out := make([]*Path, 0, len(p.comps.Segments))
	cur := p.comps
	for {
		next, ok := cur.parent()
		if !ok {
			return out
		}
		out = append(out, p.derive(next))
		cur = next
	}
}

// Join appends segments to the path, mirroring conventional joinpath
// semantics: an absolute segment restarts from the anchor, and a
// scheme-prefixed segment is accepted only for the same protocol.
// Joining a segment with a different explicit protocol fails with
// ErrProtocolMismatch.
func (p *Path) Join(segments ...string) (*Path, error) {
	comps := p.comps.clone()
	for _, seg := range segments {
		if scheme := DetectProtocol(seg); scheme != "" {
			if scheme != p.links[0].Protocol {
				return nil, addrErr("join", seg, p.links[0].Protocol, ErrProtocolMismatch)
			}
			parsed, err := p.flavour.Parse(StripProtocol(seg))
			if err != nil {
				return nil, err
			}
			comps = parsed
			continue
		}
		parsed, err := p.flavour.ParseRelative(seg)
		if err != nil {
			return nil, err
		}
		if parsed.IsAbsolute() {
			if parsed.Drive != "" {
				comps.Drive = parsed.Drive
			}
			comps.Root = p.flavour.Sep()
			comps.Segments = parsed.Segments
			continue
		}
		comps.Segments = append(comps.Segments, parsed.Segments...)
	}
	return p.derive(comps), nil
}

// WithName returns the path with its final segment replaced. It fails
// with ErrInvalidSegment for a path without a name or for a
// replacement that is empty or contains a separator.
func (p *Path) WithName(name string) (*Path, error) {
	if len(p.comps.Segments) == 0 {
		return nil, addrErr("with_name", p.String(), p.links[0].Protocol, ErrInvalidSegment)
	}
	if !validSegment(name) {
		return nil, addrErr("with_name", name, p.links[0].Protocol, ErrInvalidSegment)
	}
	comps := p.comps.clone()
	comps.Segments[len(comps.Segments)-1] = name
	return p.derive(comps), nil
}

// WithStem returns the path with the stem of its final segment
// replaced, keeping the suffix.
func (p *Path) WithStem(stem string) (*Path, error) {
	suffix := p.Suffix()
	if stem == "" && suffix != "" {
		return nil, addrErr("with_stem", stem, p.links[0].Protocol, ErrInvalidSegment)
	}
	return p.WithName(stem + suffix)
}

// WithSuffix returns the path with the suffix of its final segment
// replaced. An empty suffix removes it; otherwise the suffix must
// start with a dot and contain no separator.
func (p *Path) WithSuffix(suffix string) (*Path, error) {
	if suffix != "" && (!strings.HasPrefix(suffix, ".") || suffix == "." || !validSegment(suffix[1:])) {
		return nil, addrErr("with_suffix", suffix, p.links[0].Protocol, ErrInvalidSegment)
	}
	name := p.Name()
	if name == "" {
		return nil, addrErr("with_suffix", p.String(), p.links[0].Protocol, ErrInvalidSegment)
	}
	stem, _ := splitName(name)
	return p.WithName(stem + suffix)
}

func validSegment(s string) bool {
	return s != "" && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, ChainSep)
}

// sameFilesystem reports whether both paths address the same backend:
// equal identity tokens when both are defined (so protocol aliases
// like file/local or gs/gcs compare equal), falling back to strict
// protocol and option comparison otherwise.
func (p *Path) sameFilesystem(o *Path) bool {
	if len(p.links) != len(o.links) {
		return false
	}
	for i := 1; i < len(p.links); i++ {
		a, b := p.links[i], o.links[i]
		if a.Protocol != b.Protocol || a.Address != b.Address || !a.Options.Equal(b.Options) {
			return false
		}
	}
	idA, okA := Identity(p.links[0].Protocol, p.links[0].Options)
	idB, okB := Identity(o.links[0].Protocol, o.links[0].Options)
	if okA && okB {
		return idA == idB
	}
	return p.links[0].Protocol == o.links[0].Protocol &&
		p.links[0].Options.Equal(o.links[0].Options)
}

// RelativeTo returns the sub-path of p below base, as a separator-
// joined relative string. It fails with ErrProtocolMismatch when the
// paths address different filesystems and with ErrNotRelative when p
// is not inside base.
func (p *Path) RelativeTo(base *Path) (string, error) {
	if !p.sameFilesystem(base) {
		return "", addrErr("relative_to", p.String(), p.links[0].Protocol, ErrProtocolMismatch)
	}
	norm := p.flavour.NormCase
	if norm(p.comps.Drive) != norm(base.comps.Drive) || p.comps.Root != base.comps.Root {
		return "", addrErr("relative_to", p.String(), p.links[0].Protocol, ErrNotRelative)
	}
	if len(base.comps.Segments) > len(p.comps.Segments) {
		return "", addrErr("relative_to", p.String(), p.links[0].Protocol, ErrNotRelative)
	}
	for i, seg := range base.comps.Segments {
		if norm(seg) != norm(p.comps.Segments[i]) {
			return "", addrErr("relative_to", p.String(), p.links[0].Protocol, ErrNotRelative)
		}
	}
	rest := p.comps.Segments[len(base.comps.Segments):]
	if len(rest) == 0 {
		return ".", nil
	}
	return strings.Join(rest, p.flavour.Sep()), nil
}

// IsRelativeTo reports whether p is inside base.
func (p *Path) IsRelativeTo(base *Path) bool {
	_, err := p.RelativeTo(base)
	return err == nil
}

// Match tests the path against a glob pattern. Relative patterns
// match against the trailing components (right-anchored, like
// conventional path matching); patterns starting with the separator
// match the whole path. Matching is case-insensitive for
// case-insensitive flavours.
func (p *Path) Match(pattern string) (bool, error) {
	if pattern == "" {
		return false, addrErr("match", pattern, p.links[0].Protocol, ErrInvalidSegment)
	}
	norm := p.flavour.NormCase

	pattern = strings.ReplaceAll(pattern, `\`, "/")
	anchored := strings.HasPrefix(pattern, "/")
	patSegs := splitSegments(pattern, "/")

	var target string
	switch {
	case anchored:
		target = norm(strings.Join(p.comps.Segments, "/"))
		pattern = strings.TrimPrefix(strings.Join(patSegs, "/"), "/")
	case len(patSegs) >= len(p.comps.Segments):
		target = norm(strings.Join(p.comps.Segments, "/"))
		pattern = strings.Join(patSegs, "/")
	default:
		tail := p.comps.Segments[len(p.comps.Segments)-len(patSegs):]
		target = norm(strings.Join(tail, "/"))
		pattern = strings.Join(patSegs, "/")
	}

	g, err := glob.Compile(norm(pattern), '/')
	if err != nil {
		return false, addrErr("match", pattern, p.links[0].Protocol, ErrMalformedAddress)
	}
	return g.Match(target), nil
}

// Equal reports whether two paths reference the same resource: same
// filesystem identity and same normalized sub-path (with the strict
// protocol and option fallback for protocols without an identity).
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	norm := p.flavour.NormCase
	if norm(p.comps.Drive) != norm(o.comps.Drive) || p.comps.Root != o.comps.Root {
		return false
	}
	if len(p.comps.Segments) != len(o.comps.Segments) {
		return false
	}
	for i, seg := range p.comps.Segments {
		if norm(seg) != norm(o.comps.Segments[i]) {
			return false
		}
	}
	return p.sameFilesystem(o)
}

// Hash returns a hash consistent with Equal: derived from the
// identity token when defined (protocol plus canonicalized options
// otherwise) and the normalized sub-path.
func (p *Path) Hash() uint64 {
	d := xxhash.New()
	sep := []byte{0}
	if id, ok := Identity(p.links[0].Protocol, p.links[0].Options); ok {
		_, _ = d.WriteString(id)
	} else {
		_, _ = d.WriteString(p.links[0].Protocol)
		_, _ = d.Write(sep)
		_, _ = d.WriteString(p.links[0].Options.Canonical())
	}
	_, _ = d.Write(sep)
	_, _ = d.WriteString(p.flavour.NormCase(p.comps.Drive + p.comps.Root + strings.Join(p.comps.Segments, p.flavour.Sep())))
	for _, l := range p.links[1:] {
		_, _ = d.Write(sep)
		_, _ = d.WriteString(l.Protocol)
		_, _ = d.Write(sep)
		_, _ = d.WriteString(l.Address)
		_, _ = d.Write(sep)
		_, _ = d.WriteString(l.Options.Canonical())
	}
	return d.Sum64()
}

// String renders the canonical address. Re-parsing the result with
// the same protocol and options yields an equal path.
func (p *Path) String() string {
	p.strOnce.Do(func() {
		first := p.flavour.Join(p.comps)
		if first == "" && !p.prefixScheme {
			// segment-less relative path, conventionally "."
			first = "."
		}
		if p.prefixScheme {
			first = p.links[0].Protocol + "://" + first
		}
		if len(p.links) == 1 {
			p.str = first
			return
		}
		bits := make([]string, 0, len(p.links))
		bits = append(bits, first)
		for _, l := range p.links[1:] {
			switch {
			case l.raw != "":
				bits = append(bits, l.raw)
			case l.Protocol != "" && l.Address != "":
				bits = append(bits, l.Protocol+"://"+l.Address)
			case l.Protocol != "":
				bits = append(bits, l.Protocol)
			default:
				bits = append(bits, l.Address)
			}
		}
		p.str = strings.Join(bits, ChainSep)
	})
	return p.str
}

// FileSystem resolves the live backend handle for the path through
// the process-wide handle cache. Paths resolving to the same
// filesystem identity share one handle.
func (p *Path) FileSystem(ctx context.Context) (Backend, error) {
	return DefaultCache.GetOrCreate(ctx, p.links[0].Protocol, p.links[0].Options)
}

// SubPath returns the normalized address of the addressed segment
// without any scheme prefix, the form handed to backend operations.
func (p *Path) SubPath() string {
	return p.flavour.Join(p.comps)
}
