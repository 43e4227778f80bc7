package pathkit

import "strings"

// posixFlavour implements the POSIX address family: no drive, "/" as
// separator and root marker, case-sensitive names, duplicate
// separators collapse.
type posixFlavour struct{}

func (posixFlavour) Name() string             { return "posix" }
func (posixFlavour) Sep() string              { return "/" }
func (posixFlavour) CaseSensitive() bool      { return true }
func (posixFlavour) NormCase(s string) string { return s }

func (posixFlavour) Parse(address string) (Components, error) {
	var c Components
	if strings.HasPrefix(address, "/") {
		c.Root = "/"
	}
	c.Segments = splitSegments(address, "/")
	return c, nil
}

func (f posixFlavour) ParseRelative(segment string) (Components, error) {
	return f.Parse(segment)
}

func (posixFlavour) Join(c Components) string {
	return c.Root + strings.Join(c.Segments, "/")
}
