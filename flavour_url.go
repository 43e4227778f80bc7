package pathkit

import "strings"

// urlFlavour implements the URL address family used by remote-object
// and network backends: the URI authority (bucket, host:port, account)
// acts as the anchor, path parts are "/"-separated and case-sensitive.
//
// Query strings and fragments are kept verbatim on the final segment.
// Percent-escapes are preserved rather than decoded: decoding is not
// reversible in general, and keeping the raw escape guarantees the
// round-trip law for Join.
type urlFlavour struct{}

func (urlFlavour) Name() string             { return "url" }
func (urlFlavour) Sep() string              { return "/" }
func (urlFlavour) CaseSensitive() bool      { return true }
func (urlFlavour) NormCase(s string) string { return s }

// Parse expects the scheme to be stripped already ("bucket/key",
// "host:8080/a/b", "/no/authority"). The first component of a
// non-rooted address is the authority and becomes the drive.
func (urlFlavour) Parse(address string) (Components, error) {
	var c Components
	addr := address
	if !strings.HasPrefix(addr, "/") {
		if addr == "" {
			return c, nil
		}
		i := strings.Index(addr, "/")
		if i < 0 {
			c.Drive = addr
			c.Root = "/"
			return c, nil
		}
		c.Drive = addr[:i]
		addr = addr[i:]
	}
	c.Root = "/"
	c.Segments = splitSegments(addr, "/")
	return c, nil
}

// ParseRelative never promotes a segment to an authority: "a/b" is two
// plain components, "/a" is rooted below the existing authority.
func (urlFlavour) ParseRelative(segment string) (Components, error) {
	var c Components
	if strings.HasPrefix(segment, "/") {
		c.Root = "/"
	}
	c.Segments = splitSegments(segment, "/")
	return c, nil
}

func (urlFlavour) Join(c Components) string {
	if c.Drive == "" && c.Root == "" && len(c.Segments) == 0 {
		return ""
	}
	return c.Drive + "/" + strings.Join(c.Segments, "/")
}
