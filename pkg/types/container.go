// Package types models DATEX types: structural types built from values and
// nominal type references that can be back-patched after they are shared.
package types

import (
	"sync"

	"github.com/unyt-org/datex-go/pkg/pointer"
)

// Container is either a Type or a *Reference.
//
// References compare by identity: two containers holding the same
// *Reference are equal even while its value changes.
type Container interface {
	String() string
	container()
}

// Mutability of a reference type.
type Mutability uint8

// Reference mutabilities.
const (
	Immutable Mutability = iota + 1
	Mutable
	Final
)

func (m Mutability) prefix() string {
	switch m {
	case Mutable:
		return "&mut "
	case Final:
		return "&final "
	default:
		return "&"
	}
}

// Type is a concrete type. A non-nil Mutability marks a reference to a
// value of the described type.
type Type struct {
	Definition Definition
	Base       *Reference
	Mutability *Mutability
}

// Unit returns the unit type "()".
func Unit() Type { return Type{Definition: UnitDefinition{}} }

// ReferenceTo returns a type that refers to r.
func ReferenceTo(r *Reference) Type {
	return Type{Definition: ReferenceDefinition{Reference: r}}
}

// WithMutability returns a copy of t marked as a reference.
func (t Type) WithMutability(m Mutability) Type {
	t.Mutability = &m
	return t
}

// IsReference reports whether t is marked with a mutability.
func (t Type) IsReference() bool { return t.Mutability != nil }

func (Type) container() {}

func (t Type) String() string {
	s := t.Definition.String()
	if t.Mutability != nil {
		s = t.Mutability.prefix() + s
	}
	return s
}

// Nominal is the declared name of a reference, e.g. integer/u8.
type Nominal struct {
	Name    string
	Variant string
}

func (n Nominal) String() string {
	if n.Variant != "" {
		return n.Name + "/" + n.Variant
	}
	return n.Name
}

// Reference is a shared, mutable handle to a type.
type Reference struct {
	mu      sync.RWMutex
	value   Type
	nominal *Nominal
	address *pointer.Address
}

// NewReference returns a new reference. nominal and address may be nil.
func NewReference(value Type, nominal *Nominal, address *pointer.Address) *Reference {
	return &Reference{value: value, nominal: nominal, address: address}
}

// NewNominal returns a named reference holding a placeholder unit type.
func NewNominal(name, variant string) *Reference {
	return NewReference(Unit(), &Nominal{Name: name, Variant: variant}, nil)
}

// Value returns the referenced type.
func (r *Reference) Value() Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// SetValue replaces the referenced type. All holders of r observe the change.
func (r *Reference) SetValue(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = t
}

// Nominal returns the declared name of r.
func (r *Reference) Nominal() (Nominal, bool) {
	if r.nominal == nil {
		return Nominal{}, false
	}
	return *r.nominal, true
}

// Address returns the pointer address of r, set for core library types.
func (r *Reference) Address() (pointer.Address, bool) {
	if r.address == nil {
		return pointer.Address{}, false
	}
	return *r.address, true
}

func (*Reference) container() {}

func (r *Reference) String() string {
	if r.nominal != nil {
		return r.nominal.String()
	}
	return r.Value().String()
}
