// Package values holds the literal values of DATEX: numbers, text, endpoints
// and the static containers built from them.
package values

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/unyt-org/datex-go/pkg/corelib"
)

// ErrOutOfRange is returned when a literal does not fit its variant.
var ErrOutOfRange = errors.New("value out of range")

// ErrInvalidNumber is returned for malformed numeric literals.
var ErrInvalidNumber = errors.New("invalid number")

// Integer is an arbitrary precision integer. Integers are immutable.
type Integer struct {
	v *big.Int
}

// NewInteger returns the integer n.
func NewInteger(n int64) Integer {
	return Integer{v: big.NewInt(n)}
}

// IntegerFromBig copies b into a new Integer.
func IntegerFromBig(b *big.Int) Integer {
	return Integer{v: new(big.Int).Set(b)}
}

// ParseInteger parses decimal, 0x, 0o and 0b literals. Underscores are ignored.
func ParseInteger(s string) (Integer, error) {
	clean := strings.ReplaceAll(s, "_", "")
	base := 10
	neg := false
	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = clean[1:]
	}
	if len(clean) > 2 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base, clean = 16, clean[2:]
		case 'o', 'O':
			base, clean = 8, clean[2:]
		case 'b', 'B':
			base, clean = 2, clean[2:]
		}
	}
	v, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return Integer{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if neg {
		v.Neg(v)
	}
	return Integer{v: v}, nil
}

func (i Integer) big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

// Big returns a copy of the underlying big integer.
func (i Integer) Big() *big.Int {
	return new(big.Int).Set(i.big())
}

// Neg returns -i.
func (i Integer) Neg() Integer {
	return Integer{v: new(big.Int).Neg(i.big())}
}

// Equal reports numeric equality.
func (i Integer) Equal(o Integer) bool {
	return i.big().Cmp(o.big()) == 0
}

func (i Integer) String() string {
	return i.big().String()
}

// TypedInteger is an integer restricted to a sized variant.
type TypedInteger struct {
	variant corelib.IntegerVariant
	v       *big.Int
}

// NewTypedInteger checks that n fits the variant.
func NewTypedInteger(n Integer, variant corelib.IntegerVariant) (TypedInteger, error) {
	if variant == 0 || variant > corelib.IBig {
		return TypedInteger{}, fmt.Errorf("%w: integer variant %d", ErrInvalidNumber, variant)
	}
	v := n.big()
	if bits := variant.Bits(); bits > 0 {
		lo, hi := bounds(bits, variant.Signed())
		if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
			return TypedInteger{}, fmt.Errorf("%w: %s does not fit %s", ErrOutOfRange, v, variant)
		}
	}
	return TypedInteger{variant: variant, v: new(big.Int).Set(v)}, nil
}

// MustTypedInteger is NewTypedInteger for literals known to fit.
func MustTypedInteger(n int64, variant corelib.IntegerVariant) TypedInteger {
	t, err := NewTypedInteger(NewInteger(n), variant)
	if err != nil {
		panic(err)
	}
	return t
}

func bounds(bits int, signed bool) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if signed {
		hi = new(big.Int).Lsh(one, uint(bits-1))
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, one)
		return lo, hi
	}
	hi = new(big.Int).Lsh(one, uint(bits))
	return new(big.Int), hi.Sub(hi, one)
}

// Variant returns the integer variant.
func (t TypedInteger) Variant() corelib.IntegerVariant { return t.variant }

// Integer drops the variant.
func (t TypedInteger) Integer() Integer {
	if t.v == nil {
		return Integer{}
	}
	return IntegerFromBig(t.v)
}

// Neg negates the value, failing when the result leaves the variant's range.
func (t TypedInteger) Neg() (TypedInteger, error) {
	return NewTypedInteger(t.Integer().Neg(), t.variant)
}

// Equal reports equality of value and variant.
func (t TypedInteger) Equal(o TypedInteger) bool {
	return t.variant == o.variant && t.Integer().Equal(o.Integer())
}

func (t TypedInteger) String() string {
	suffix := t.variant.String()
	if t.variant == corelib.IBig {
		suffix = "ibig"
	}
	return t.Integer().String() + suffix
}
