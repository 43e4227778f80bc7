package pathkit

import "strings"

// ChainSep separates the links of a compound address, e.g.
// "member.csv::zip://archive.zip::s3://bucket/data.zip".
const ChainSep = "::"

// Link is one element of a decomposed compound address: a protocol, a
// scheme-stripped address and the storage options for that backend.
// The first link of a chain is the addressed sub-path; each following
// link is the container holding the previous one, the last being the
// top-level backend.
type Link struct {
	Protocol string
	Address  string
	Options  Options

	// raw preserves the original chain bit so JoinChain can reproduce
	// the input string exactly. Empty for synthesized links.
	raw string
}

// splitChain splits an address on the chain separator. A "::" inside
// an IPv6 bracket host, a query string or the credentials part of an
// authority is not a chain boundary; scanner state resets at each
// boundary.
func splitChain(address string) []string {
	var bits []string
	start := 0
	inQuery := false
	inAuth := false
	seenAt := false
	depth := 0
	for i := 0; i < len(address); i++ {
		switch address[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '?':
			inQuery = true
		case '@':
			seenAt = true
		case '/':
			inAuth = false
		case ':':
			if i+2 < len(address) && address[i+1] == '/' && address[i+2] == '/' {
				// "://" opens the authority part
				inAuth = true
				seenAt = false
				i += 2
				continue
			}
			if inQuery || depth > 0 || i+1 >= len(address) || address[i+1] != ':' {
				continue
			}
			if inAuth && !seenAt && userinfoAhead(address[i+2:]) {
				// "::" inside credentials, e.g. sftp://u:p::w@host/
				continue
			}
			bits = append(bits, address[start:i])
			i++
			start = i + 1
			inQuery = false
			inAuth = false
			seenAt = false
		}
	}
	return append(bits, address[start:])
}

// userinfoAhead reports whether a userinfo-terminating "@" appears
// before the authority ends.
func userinfoAhead(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '@':
			return true
		case '/', '?':
			return false
		}
	}
	return false
}

// Unchain decomposes a possibly compound address into its links,
// addressed sub-path first. Single-protocol addresses yield one link.
// The explicit protocol applies to the addressed link only; options
// are looked up per protocol and merged over registry defaults.
func Unchain(address, explicit string, optsByProtocol map[string]Options, maxDepth int) ([]Link, error) {
	bits := splitChain(address)
	if maxDepth > 0 && len(bits) > maxDepth {
		return nil, addrErr("unchain", address, explicit, ErrChainTooDeep)
	}

	links := make([]Link, 0, len(bits))
	for i, bit := range bits {
		if bit == "" {
			return nil, addrErr("unchain", address, explicit, ErrEmptyChainLink)
		}
		if i > 0 && bit == bits[i-1] {
			// a link cannot contain itself
			return nil, addrErr("unchain", address, explicit, ErrMalformedAddress)
		}

		var protocol string
		switch {
		case i == 0:
			p, err := ResolveProtocol(bit, explicit)
			if err != nil {
				return nil, err
			}
			protocol = p
		case DetectProtocol(bit) != "":
			protocol = DetectProtocol(bit)
		case !strings.ContainsAny(bit, "/\\") && isKnownProtocol(bit):
			// bare protocol name acts as a wrapper link with no path
			links = append(links, Link{
				Protocol: bit,
				Options:  linkOptions(bit, optsByProtocol),
				raw:      bit,
			})
			continue
		}

		links = append(links, Link{
			Protocol: protocol,
			Address:  StripProtocol(bit),
			Options:  linkOptions(protocol, optsByProtocol),
			raw:      bit,
		})
	}
	return links, nil
}

func linkOptions(protocol string, optsByProtocol map[string]Options) Options {
	entry, _ := Lookup(protocol)
	return NewOptions(optsByProtocol[protocol]).Merge(entry.Defaults)
}

// JoinChain renders links back into a compound address. Links that
// still carry their original bit reproduce it verbatim, so
// JoinChain(Unchain(addr)) returns addr unchanged.
func JoinChain(links []Link) string {
	bits := make([]string, 0, len(links))
	for _, l := range links {
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
	return strings.Join(bits, ChainSep)
}
