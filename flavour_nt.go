package pathkit

import "strings"

// windowsFlavour implements the Windows address family: a drive letter
// ("C:") or UNC host/share prefix ("\\host\share"), "\" as separator
// with "/" accepted and normalized, case-insensitive comparison with
// original case preserved.
type windowsFlavour struct{}

func (windowsFlavour) Name() string        { return "windows" }
func (windowsFlavour) Sep() string         { return `\` }
func (windowsFlavour) CaseSensitive() bool { return false }

func (windowsFlavour) NormCase(s string) string { return strings.ToLower(s) }

func (windowsFlavour) Parse(address string) (Components, error) {
	// Accept forward slashes and normalize to backslashes.
	addr := strings.ReplaceAll(address, "/", `\`)

	var c Components
	switch {
	case strings.HasPrefix(addr, `\\`):
		// UNC: \\host\share is the drive, the remainder is the path.
		rest := addr[2:]
		i := strings.Index(rest, `\`)
		if i < 0 || i == 0 {
			return Components{}, addrErr("parse", address, "", ErrMalformedAddress)
		}
		j := strings.Index(rest[i+1:], `\`)
		if j < 0 {
			if rest[i+1:] == "" {
				return Components{}, addrErr("parse", address, "", ErrMalformedAddress)
			}
			c.Drive = `\\` + rest
			c.Root = `\`
			return c, nil
		}
		c.Drive = `\\` + rest[:i+1+j]
		c.Root = `\`
		addr = rest[i+1+j:]
	case len(addr) >= 2 && addr[1] == ':' && isDriveLetter(addr[0]):
		c.Drive = addr[:2]
		addr = addr[2:]
	}

	if strings.HasPrefix(addr, `\`) {
		c.Root = `\`
	}
	c.Segments = splitSegments(addr, `\`)
	return c, nil
}

func (f windowsFlavour) ParseRelative(segment string) (Components, error) {
	return f.Parse(segment)
}

func (windowsFlavour) Join(c Components) string {
	return c.Drive + c.Root + strings.Join(c.Segments, `\`)
}

func isDriveLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}
