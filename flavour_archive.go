package pathkit

import "strings"

// archiveFlavour addresses member paths inside zip/tar containers.
// Members follow POSIX rules regardless of the host OS; the container
// itself is resolved through the chain decomposer, never here.
type archiveFlavour struct{}

func (archiveFlavour) Name() string             { return "archive" }
func (archiveFlavour) Sep() string              { return "/" }
func (archiveFlavour) CaseSensitive() bool      { return true }
func (archiveFlavour) NormCase(s string) string { return s }

func (archiveFlavour) Parse(address string) (Components, error) {
	var c Components
	if strings.HasPrefix(address, "/") {
		c.Root = "/"
	}
	c.Segments = splitSegments(address, "/")
	return c, nil
}

func (f archiveFlavour) ParseRelative(segment string) (Components, error) {
	return f.Parse(segment)
}

func (archiveFlavour) Join(c Components) string {
	return c.Root + strings.Join(c.Segments, "/")
}
