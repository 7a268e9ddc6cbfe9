package values

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/corelib"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"42", 42},
		{"1_000", 1000},
		{"0xff", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"-7", -7},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInteger(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(NewInteger(tt.want)), got.String())
		})
	}

	_, err := ParseInteger("12ab")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestTypedIntegerRange(t *testing.T) {
	_, err := NewTypedInteger(NewInteger(256), corelib.U8)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewTypedInteger(NewInteger(-1), corelib.U8)
	assert.ErrorIs(t, err, ErrOutOfRange)

	v, err := NewTypedInteger(NewInteger(-128), corelib.I8)
	require.NoError(t, err)
	_, err = v.Neg()
	assert.ErrorIs(t, err, ErrOutOfRange, "-(-128) overflows i8")

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	b, err := NewTypedInteger(IntegerFromBig(huge), corelib.IBig)
	require.NoError(t, err)
	assert.Equal(t, huge.String()+"ibig", b.String())

	assert.Equal(t, "42u8", MustTypedInteger(42, corelib.U8).String())
}

func TestDecimal(t *testing.T) {
	d, err := ParseDecimal("1.5e2")
	require.NoError(t, err)
	assert.Equal(t, "150.0", d.String())

	frac, err := DecimalFromFraction(NewInteger(3), NewInteger(4))
	require.NoError(t, err)
	assert.Equal(t, "0.75", frac.String())

	_, err = DecimalFromFraction(NewInteger(1), NewInteger(0))
	assert.ErrorIs(t, err, ErrInvalidNumber)

	assert.True(t, NaN().Equal(NaN()))
	assert.Equal(t, "-infinity", Infinity(false).Neg().String())
	assert.False(t, Infinity(false).IsFinite())
}

func TestTypedDecimal(t *testing.T) {
	f := MustTypedDecimal(42.69, corelib.F32)
	assert.Equal(t, corelib.F32, f.Variant())
	assert.Equal(t, "42.69f32", f.String())
	assert.True(t, f.Equal(MustTypedDecimal(42.69, corelib.F32)))
	assert.False(t, f.Equal(MustTypedDecimal(42.69, corelib.F64)))
	assert.Equal(t, "-1.5f64", MustTypedDecimal(1.5, corelib.F64).Neg().String())
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want Endpoint
	}{
		{"@jonas", Endpoint{Kind: Person, Name: "jonas"}},
		{"@+unyt", Endpoint{Kind: Institution, Name: "unyt"}},
		{"@@anon-1", Endpoint{Kind: Anonymous, Name: "anon-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEndpoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
	for _, bad := range []string{"jonas", "@", "@a b"} {
		_, err := ParseEndpoint(bad)
		assert.ErrorIs(t, err, ErrInvalidEndpoint, bad)
	}
}

func TestValueEqual(t *testing.T) {
	a := &Map{Entries: []MapEntry{
		{Key: Text("a"), Value: &List{Items: []Value{NewInteger(1), Null{}}}},
	}}
	b := &Map{Entries: []MapEntry{
		{Key: Text("a"), Value: &List{Items: []Value{NewInteger(1), Null{}}}},
	}}
	assert.True(t, Equal(a, b))
	assert.Equal(t, `{"a": [1, null]}`, a.String())

	got, ok := a.Get(Text("a"))
	require.True(t, ok)
	assert.Equal(t, "[1, null]", got.String())

	assert.False(t, Equal(NewInteger(1), MustTypedInteger(1, corelib.U8)))
	assert.False(t, Equal(Boolean(true), Text("true")))
}
