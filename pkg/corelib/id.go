// Package corelib identifies the built-in types and values of the DATEX core library.
//
// Every core entry has a stable ID. The ID is stored in an internal pointer
// address as three little-endian bytes, which is how resolved ASTs refer to it.
package corelib

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/unyt-org/datex-go/pkg/pointer"
)

// ID is a stable core library pointer id.
type ID uint16

// Fixed core library ids.
const (
	Core     ID = 0
	Null     ID = 1
	Type     ID = 2
	Boolean  ID = 3
	Function ID = 5
	Endpoint ID = 7
	Text     ID = 8
	List     ID = 9
	Unit     ID = 11
	Map      ID = 12
	Never    ID = 13
	Unknown  ID = 14

	integerBase ID = 100
	decimalBase ID = 300
)

// IntegerVariant is a sized integer kind.
type IntegerVariant uint8

// Integer variants. The zero value means "no variant".
const (
	U8 IntegerVariant = iota + 1
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	IBig
)

var integerVariantNames = [...]string{"", "u8", "u16", "u32", "u64", "u128", "i8", "i16", "i32", "i64", "i128", "big"}

func (v IntegerVariant) String() string {
	if int(v) < len(integerVariantNames) {
		return integerVariantNames[v]
	}
	return fmt.Sprintf("IntegerVariant(%d)", v)
}

// Signed reports whether the variant holds negative numbers.
func (v IntegerVariant) Signed() bool {
	return v >= I8
}

// Bits returns the width of a sized variant, or 0 for IBig.
func (v IntegerVariant) Bits() int {
	switch v {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	default:
		return 0
	}
}

// ParseIntegerVariant parses names like "u8". Both "big" and "ibig" name IBig.
func ParseIntegerVariant(s string) (IntegerVariant, bool) {
	if s == "ibig" {
		return IBig, true
	}
	for i, name := range integerVariantNames {
		if i > 0 && name == s {
			return IntegerVariant(i), true
		}
	}
	return 0, false
}

// DecimalVariant is a sized decimal kind.
type DecimalVariant uint8

// Decimal variants. The zero value means "no variant".
const (
	F32 DecimalVariant = iota + 1
	F64
	DBig
)

var decimalVariantNames = [...]string{"", "f32", "f64", "big"}

func (v DecimalVariant) String() string {
	if int(v) < len(decimalVariantNames) {
		return decimalVariantNames[v]
	}
	return fmt.Sprintf("DecimalVariant(%d)", v)
}

// ParseDecimalVariant parses names like "f64". Both "big" and "dbig" name DBig.
func ParseDecimalVariant(s string) (DecimalVariant, bool) {
	if s == "dbig" {
		return DBig, true
	}
	for i, name := range decimalVariantNames {
		if i > 0 && name == s {
			return DecimalVariant(i), true
		}
	}
	return 0, false
}

// Integer returns the id of the integer type, optionally narrowed to a variant.
func Integer(v IntegerVariant) ID { return integerBase + ID(v) }

// Decimal returns the id of the decimal type, optionally narrowed to a variant.
func Decimal(v DecimalVariant) ID { return decimalBase + ID(v) }

var baseNames = map[ID]string{
	Core:     "core",
	Null:     "null",
	Type:     "type",
	Boolean:  "boolean",
	Function: "function",
	Endpoint: "endpoint",
	Text:     "text",
	List:     "List",
	Unit:     "Unit",
	Map:      "Map",
	Never:    "never",
	Unknown:  "unknown",
}

// ErrUnknownID is returned when an id or name is not part of the core library.
var ErrUnknownID = errors.New("unknown core library id")

// IsValid reports whether id names a core library entry.
func (id ID) IsValid() bool {
	if _, ok := baseNames[id]; ok {
		return true
	}
	switch {
	case id >= integerBase && id <= Integer(IBig):
		return true
	case id >= decimalBase && id <= Decimal(DBig):
		return true
	}
	return false
}

// IntegerVariant returns the variant of an integer id.
func (id ID) IntegerVariant() (IntegerVariant, bool) {
	if id > integerBase && id <= Integer(IBig) {
		return IntegerVariant(id - integerBase), true
	}
	return 0, false
}

// DecimalVariant returns the variant of a decimal id.
func (id ID) DecimalVariant() (DecimalVariant, bool) {
	if id > decimalBase && id <= Decimal(DBig) {
		return DecimalVariant(id - decimalBase), true
	}
	return 0, false
}

// Base strips the variant: Integer(U8).Base() == Integer(0).
func (id ID) Base() ID {
	switch {
	case id >= integerBase && id <= Integer(IBig):
		return integerBase
	case id >= decimalBase && id <= Decimal(DBig):
		return decimalBase
	}
	return id
}

// HasVariant reports whether id is a narrowed integer or decimal id.
func (id ID) HasVariant() bool {
	return id.Base() != id
}

// Name returns the base name and variant name of id.
func (id ID) Name() (name, variant string) {
	if v, ok := id.IntegerVariant(); ok {
		return "integer", v.String()
	}
	if v, ok := id.DecimalVariant(); ok {
		return "decimal", v.String()
	}
	switch id {
	case integerBase:
		return "integer", ""
	case decimalBase:
		return "decimal", ""
	}
	return baseNames[id], ""
}

// String renders the id as its core library name, e.g. "integer/u8".
func (id ID) String() string {
	name, variant := id.Name()
	if name == "" {
		return fmt.Sprintf("core#%d", uint16(id))
	}
	if variant != "" {
		return name + "/" + variant
	}
	return name
}

// FromName parses a core library name such as "text" or "integer/u8".
func FromName(s string) (ID, error) {
	name, variant, hasVariant := strings.Cut(s, "/")
	switch name {
	case "integer":
		if !hasVariant {
			return integerBase, nil
		}
		if v, ok := ParseIntegerVariant(variant); ok {
			return Integer(v), nil
		}
	case "decimal":
		if !hasVariant {
			return decimalBase, nil
		}
		if v, ok := ParseDecimalVariant(variant); ok {
			return Decimal(v), nil
		}
	default:
		if hasVariant {
			break
		}
		for id, n := range baseNames {
			if n == name {
				return id, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownID, s)
}

// Address returns the internal pointer address of id.
func (id ID) Address() pointer.Address {
	return pointer.NewInternal([3]byte{byte(id), byte(id >> 8), 0})
}

// FromAddress recovers a core library id from an internal pointer address.
func FromAddress(a pointer.Address) (ID, error) {
	if a.Kind() != pointer.Internal {
		return 0, fmt.Errorf("%w: %s is not internal", ErrUnknownID, a)
	}
	b := a.Bytes()
	raw := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	if raw > 0xFFFF || !ID(raw).IsValid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownID, a)
	}
	return ID(raw), nil
}

// All returns every valid core library id in ascending order.
func All() []ID {
	ids := make([]ID, 0, len(baseNames)+len(integerVariantNames)+len(decimalVariantNames))
	for id := range baseNames {
		ids = append(ids, id)
	}
	for v := range integerVariantNames {
		ids = append(ids, Integer(IntegerVariant(v)))
	}
	for v := range decimalVariantNames {
		ids = append(ids, Decimal(DecimalVariant(v)))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
