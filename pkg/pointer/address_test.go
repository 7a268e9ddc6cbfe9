package pointer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
	}{
		{"internal", "$640000", Internal},
		{"internal without dollar", "640000", Internal},
		{"local", "$0102030405", Local},
		{"remote", "$" + strings.Repeat("ab", RemoteSize), Remote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, a.Kind())
			assert.Equal(t, "$"+strings.TrimPrefix(tt.in, "$"), a.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"$01", "$zz0000", "$01020304"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, in)
	}
}

func TestAddressEquality(t *testing.T) {
	a := NewInternal([3]byte{100, 0, 0})
	b, err := Parse("$640000")
	require.NoError(t, err)
	assert.True(t, a == b)
	assert.Equal(t, []byte{100, 0, 0}, a.Bytes())
	assert.False(t, Address{}.IsValid())
}
