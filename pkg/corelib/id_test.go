package corelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/pointer"
)

func TestIDEncoding(t *testing.T) {
	assert.Equal(t, ID(100), Integer(0))
	assert.Equal(t, ID(101), Integer(U8))
	assert.Equal(t, ID(111), Integer(IBig))
	assert.Equal(t, ID(302), Decimal(F64))
}

func TestFromNameRoundTrip(t *testing.T) {
	for _, id := range All() {
		t.Run(id.String(), func(t *testing.T) {
			got, err := FromName(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{in: "integer", want: Integer(0)},
		{in: "integer/u8", want: Integer(U8)},
		{in: "integer/ibig", want: Integer(IBig)},
		{in: "decimal/f32", want: Decimal(F32)},
		{in: "boolean", want: Boolean},
		{in: "List", want: List},
		{in: "integer/invalid", wantErr: true},
		{in: "text/u8", wantErr: true},
		{in: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FromName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressRoundTrip(t *testing.T) {
	a := Integer(U8).Address()
	assert.Equal(t, pointer.Internal, a.Kind())
	assert.Equal(t, "$650000", a.String())

	id, err := FromAddress(a)
	require.NoError(t, err)
	assert.Equal(t, Integer(U8), id)

	local, err := pointer.Parse("$0000000000")
	require.NoError(t, err)
	_, err = FromAddress(local)
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestBase(t *testing.T) {
	assert.Equal(t, Integer(0), Integer(I32).Base())
	assert.Equal(t, Decimal(0), Decimal(DBig).Base())
	assert.Equal(t, Text, Text.Base())
	assert.True(t, Integer(U8).HasVariant())
	assert.False(t, Integer(0).HasVariant())
	assert.True(t, I8.Signed())
	assert.Equal(t, 128, U128.Bits())
}
