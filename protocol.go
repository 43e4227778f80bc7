package pathkit

import (
	"regexp"
	"strings"
)

// Protocol scheme prefix, e.g. "s3://bucket/key" or "file:/tmp/x".
// A single letter followed by ":" is a Windows drive, not a scheme,
// so the protocol part requires at least two characters.
var protocolRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.-]+):(//?)`)

// Data URIs carry their payload inline and have no slashes.
var dataURIRe = regexp.MustCompile(`^data:[^,]*,`)

// DetectProtocol returns the protocol encoded in the address scheme
// prefix, or "" when the address carries none.
func DetectProtocol(address string) string {
	if m := protocolRe.FindStringSubmatch(address); m != nil {
		return strings.ToLower(m[1])
	}
	if dataURIRe.MatchString(address) {
		return "data"
	}
	return ""
}

// ResolveProtocol determines the protocol for one address segment.
// An explicit protocol wins; if the address also encodes a different,
// non-aliased scheme the call fails with ErrProtocolMismatch rather
// than silently preferring one. Without either, "" is returned and the
// caller falls back to the local protocol.
func ResolveProtocol(address, explicit string) (string, error) {
	detected := DetectProtocol(address)
	if explicit != "" && detected != "" && !strings.HasPrefix(detected, explicit) {
		return "", addrErr("resolve", address, explicit, ErrProtocolMismatch)
	}
	if explicit != "" {
		if detected != "" {
			// "http" vs "https", "s3" vs "s3a": the encoded scheme is
			// the more specific one and wins.
			return detected, nil
		}
		return explicit, nil
	}
	return detected, nil
}

// StripProtocol removes the scheme prefix from an address, leaving the
// part a Flavour parses. "scheme:/p" is treated as rooted.
func StripProtocol(address string) string {
	m := protocolRe.FindStringSubmatch(address)
	if m == nil {
		return address
	}
	rest := address[len(m[1])+1+len(m[2]):]
	if m[2] == "/" {
		// single-slash form addresses a rooted path
		return "/" + rest
	}
	return rest
}
