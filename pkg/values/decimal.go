package values

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/unyt-org/datex-go/pkg/corelib"
)

type decimalKind uint8

const (
	finite decimalKind = iota
	posInf
	negInf
	notANumber
)

// Decimal is an exact rational number, or one of the IEEE special values.
type Decimal struct {
	kind decimalKind
	r    *big.Rat
}

// ParseDecimal parses literals like "1.5", "-2e10", "infinity" and "nan".
func ParseDecimal(s string) (Decimal, error) {
	clean := strings.ReplaceAll(s, "_", "")
	switch strings.ToLower(clean) {
	case "infinity", "+infinity":
		return Infinity(false), nil
	case "-infinity":
		return Infinity(true), nil
	case "nan":
		return NaN(), nil
	}
	r, ok := new(big.Rat).SetString(clean)
	if !ok {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return Decimal{r: r}, nil
}

// DecimalFromFraction returns num/den. den must not be zero.
func DecimalFromFraction(num, den Integer) (Decimal, error) {
	if den.big().Sign() == 0 {
		return Decimal{}, fmt.Errorf("%w: zero denominator", ErrInvalidNumber)
	}
	return Decimal{r: new(big.Rat).SetFrac(num.big(), den.big())}, nil
}

// DecimalFromFloat converts f exactly.
func DecimalFromFloat(f float64) Decimal {
	switch {
	case math.IsNaN(f):
		return NaN()
	case math.IsInf(f, 1):
		return Infinity(false)
	case math.IsInf(f, -1):
		return Infinity(true)
	}
	return Decimal{r: new(big.Rat).SetFloat64(f)}
}

// Infinity returns positive or negative infinity.
func Infinity(negative bool) Decimal {
	if negative {
		return Decimal{kind: negInf}
	}
	return Decimal{kind: posInf}
}

// NaN returns the not-a-number decimal.
func NaN() Decimal { return Decimal{kind: notANumber} }

func (d Decimal) rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}
	return d.r
}

// IsFinite reports whether d is neither infinite nor NaN.
func (d Decimal) IsFinite() bool { return d.kind == finite }

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	switch d.kind {
	case posInf:
		return Infinity(true)
	case negInf:
		return Infinity(false)
	case notANumber:
		return d
	}
	return Decimal{r: new(big.Rat).Neg(d.rat())}
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	switch d.kind {
	case posInf:
		return math.Inf(1)
	case negInf:
		return math.Inf(-1)
	case notANumber:
		return math.NaN()
	}
	f, _ := d.rat().Float64()
	return f
}

// Equal compares values. NaN equals NaN so that literal types stay reflexive.
func (d Decimal) Equal(o Decimal) bool {
	if d.kind != o.kind {
		return false
	}
	if d.kind != finite {
		return true
	}
	return d.rat().Cmp(o.rat()) == 0
}

func (d Decimal) String() string {
	switch d.kind {
	case posInf:
		return "infinity"
	case negInf:
		return "-infinity"
	case notANumber:
		return "nan"
	}
	r := d.rat()
	if r.IsInt() {
		return r.Num().String() + ".0"
	}
	if s, exact := r.FloatPrec(); exact {
		return r.FloatString(s)
	}
	return r.String()
}

// TypedDecimal is a decimal restricted to a variant.
type TypedDecimal struct {
	variant corelib.DecimalVariant
	f       float64
	d       Decimal
}

// NewTypedDecimal converts d to the variant. f32 and f64 round to the nearest float.
func NewTypedDecimal(d Decimal, variant corelib.DecimalVariant) (TypedDecimal, error) {
	switch variant {
	case corelib.F32:
		return TypedDecimal{variant: variant, f: float64(float32(d.Float64()))}, nil
	case corelib.F64:
		return TypedDecimal{variant: variant, f: d.Float64()}, nil
	case corelib.DBig:
		return TypedDecimal{variant: variant, d: d}, nil
	}
	return TypedDecimal{}, fmt.Errorf("%w: decimal variant %d", ErrInvalidNumber, variant)
}

// MustTypedDecimal is NewTypedDecimal for float literals.
func MustTypedDecimal(f float64, variant corelib.DecimalVariant) TypedDecimal {
	t, err := NewTypedDecimal(DecimalFromFloat(f), variant)
	if err != nil {
		panic(err)
	}
	return t
}

// Variant returns the decimal variant.
func (t TypedDecimal) Variant() corelib.DecimalVariant { return t.variant }

// Decimal drops the variant.
func (t TypedDecimal) Decimal() Decimal {
	if t.variant == corelib.DBig {
		return t.d
	}
	return DecimalFromFloat(t.f)
}

// Neg returns -t.
func (t TypedDecimal) Neg() TypedDecimal {
	if t.variant == corelib.DBig {
		return TypedDecimal{variant: t.variant, d: t.d.Neg()}
	}
	return TypedDecimal{variant: t.variant, f: -t.f}
}

// Equal reports equality of value and variant.
func (t TypedDecimal) Equal(o TypedDecimal) bool {
	if t.variant != o.variant {
		return false
	}
	if t.variant == corelib.DBig {
		return t.d.Equal(o.d)
	}
	if math.IsNaN(t.f) && math.IsNaN(o.f) {
		return true
	}
	return t.f == o.f
}

func (t TypedDecimal) String() string {
	switch t.variant {
	case corelib.F32:
		return formatFloat(t.f, 32) + "f32"
	case corelib.F64:
		return formatFloat(t.f, 64) + "f64"
	default:
		return t.d.String() + "dbig"
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "infinity"
	case math.IsInf(f, -1):
		return "-infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
