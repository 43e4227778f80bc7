package pathkit

// Components is the canonical decomposition of a single address into
// drive, root and ordered segments, as produced by a Flavour.
//
// The invariant maintained by every flavour is that
// Flavour.Join(Flavour.Parse(addr)) re-parses to the same Components.
// Segments never contain the flavour separator and are never empty.
type Components struct {
	// Drive is the drive letter ("C:"), UNC prefix ("\\host\share") or
	// URL authority ("bucket", "host:8080"). Empty for flavours without
	// a drive concept.
	Drive string

	// Root is the separator marking an absolute path ("/" or "\"), or
	// empty for relative addresses.
	Root string

	// Segments are the path components between separators, in order.
	Segments []string
}

// IsAbsolute reports whether the components describe an absolute
// address under their flavour's rules.
func (c Components) IsAbsolute() bool {
	return c.Root != "" || c.Drive != ""
}

// Anchor returns the concatenation of drive and root, mirroring the
// conventional path anchor.
func (c Components) Anchor() string {
	return c.Drive + c.Root
}

// Name returns the final segment, or "" when there is none.
func (c Components) Name() string {
	if len(c.Segments) == 0 {
		return ""
	}
	return c.Segments[len(c.Segments)-1]
}

// clone returns a deep copy so derived paths never alias segment
// slices with their parents.
func (c Components) clone() Components {
	out := c
	out.Segments = make([]string, len(c.Segments))
	copy(out.Segments, c.Segments)
	return out
}

// parent returns the components of the immediate parent and whether a
// parent exists (a drive/root-only path is its own parent).
func (c Components) parent() (Components, bool) {
	if len(c.Segments) == 0 {
		return c, false
	}
	out := c.clone()
	out.Segments = out.Segments[:len(out.Segments)-1]
	return out, true
}
