// Package pointer implements DATEX pointer addresses.
package pointer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes the three pointer address layouts.
type Kind uint8

const (
	// Internal addresses identify runtime-provided values such as the core library.
	Internal Kind = iota + 1
	// Local addresses identify pointers owned by the current endpoint.
	Local
	// Remote addresses identify pointers owned by another endpoint.
	Remote
)

// Byte lengths of each address kind.
const (
	InternalSize = 3
	LocalSize    = 5
	RemoteSize   = 26
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ErrInvalidAddress is returned for addresses with an unsupported length or bad hex.
var ErrInvalidAddress = errors.New("invalid pointer address")

// Address is a pointer address. The zero value is not a valid address.
type Address struct {
	kind  Kind
	bytes [RemoteSize]byte
}

// NewInternal builds an internal address from its three bytes.
func NewInternal(b [InternalSize]byte) Address {
	a := Address{kind: Internal}
	copy(a.bytes[:], b[:])
	return a
}

// FromBytes builds an address, selecting the kind from len(b).
func FromBytes(b []byte) (Address, error) {
	var a Address
	switch len(b) {
	case InternalSize:
		a.kind = Internal
	case LocalSize:
		a.kind = Local
	case RemoteSize:
		a.kind = Remote
	default:
		return Address{}, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(b))
	}
	copy(a.bytes[:], b)
	return a, nil
}

// Parse parses a hex address with an optional leading "$".
func Parse(s string) (Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, s)
	}
	return FromBytes(raw)
}

// Kind returns the address layout.
func (a Address) Kind() Kind { return a.kind }

// IsValid reports whether a was produced by one of the constructors.
func (a Address) IsValid() bool { return a.kind != 0 }

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, a.size())
	copy(out, a.bytes[:])
	return out
}

func (a Address) size() int {
	switch a.kind {
	case Internal:
		return InternalSize
	case Local:
		return LocalSize
	case Remote:
		return RemoteSize
	default:
		return 0
	}
}

// String renders the address as "$" followed by lowercase hex.
func (a Address) String() string {
	return "$" + hex.EncodeToString(a.bytes[:a.size()])
}
