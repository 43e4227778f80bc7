package pathkit

import (
	"errors"
	"fmt"
)

// Common path engine errors
var (
	ErrMalformedAddress     = errors.New("malformed address")
	ErrProtocolMismatch     = errors.New("protocol mismatch")
	ErrChainTooDeep         = errors.New("address chain too deep")
	ErrEmptyChainLink       = errors.New("empty chain link")
	ErrUnknownProtocol      = errors.New("unknown protocol")
	ErrInvalidSegment       = errors.New("invalid path segment")
	ErrUnsupportedOperation = errors.New("operation not supported")
	ErrNoBackendFactory     = errors.New("no backend factory registered")
)

// Errors reported by backend capability implementations
var (
	ErrNotExist = errors.New("entry does not exist")
	ErrExist    = errors.New("entry already exists")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
)

// AddressError records an error together with the operation, the raw
// address and the protocol that caused it.
type AddressError struct {
	Op       string
	Address  string
	Protocol string
	Err      error
}

// Error implements the error interface
func (e *AddressError) Error() string {
	if e.Protocol != "" {
		return fmt.Sprintf("%s %s [%s]: %v", e.Op, e.Address, e.Protocol, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address, e.Err)
}

// Unwrap returns the underlying error
func (e *AddressError) Unwrap() error {
	return e.Err
}

func addrErr(op, address, protocol string, err error) *AddressError {
	return &AddressError{Op: op, Address: address, Protocol: protocol, Err: err}
}

// IsMalformedAddress reports whether an error indicates an unparseable
// address
func IsMalformedAddress(err error) bool {
	return errors.Is(err, ErrMalformedAddress)
}

// IsProtocolMismatch reports whether an error indicates conflicting
// explicit and inferred protocols, or a cross-protocol join
func IsProtocolMismatch(err error) bool {
	return errors.Is(err, ErrProtocolMismatch)
}

// IsInvalidSegment reports whether an error indicates an invalid name,
// stem or suffix replacement
func IsInvalidSegment(err error) bool {
	return errors.Is(err, ErrInvalidSegment)
}

// IsUnsupported reports whether an error indicates an operation that is
// not meaningful for the flavour or backend
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
