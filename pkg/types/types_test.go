package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/values"
)

func TestCoreReference(t *testing.T) {
	u8 := CoreReference(corelib.Integer(corelib.U8))
	assert.Equal(t, "integer/u8", u8.String())
	assert.Same(t, Integer(), u8.Value().Base)
	assert.Same(t, u8, CoreReference(corelib.Integer(corelib.U8)), "core references are shared")

	id, ok := CoreID(u8)
	require.True(t, ok)
	assert.Equal(t, corelib.Integer(corelib.U8), id)

	_, ok = CoreID(NewNominal("User", ""))
	assert.False(t, ok)

	assert.Panics(t, func() { CoreReference(corelib.ID(4)) })
}

func TestBaseType(t *testing.T) {
	tests := []struct {
		name string
		in   Container
		want *Reference
	}{
		{"integer literal", Literal(values.NewInteger(42)), Integer()},
		{"typed integer literal", Literal(values.MustTypedInteger(42, corelib.U8)), Integer()},
		{"integer/u8", CoreReference(corelib.Integer(corelib.U8)), Integer()},
		{"integer", Integer(), Integer()},
		{"text literal", Literal(values.Text("a")), Text()},
		{"decimal/f32", CoreReference(corelib.Decimal(corelib.F32)), Decimal()},
		{"list", ListOf(Integer()), CoreReference(corelib.List)},
		{"reference type", ReferenceTo(Text()), Text()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, BaseType(tt.in))
		})
	}
	assert.Nil(t, BaseType(Unit()))

	user := NewNominal("User", "")
	assert.Same(t, user, BaseType(user))
}

func TestReferenceIdentity(t *testing.T) {
	a := NewNominal("A", "")
	b := NewNominal("A", "")
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b), "same name, different declaration")

	// back-patching is visible through every holder
	holder := UnionOf(a, Null())
	a.SetValue(ReferenceTo(Integer()))
	u := holder.Definition.(Union)
	assert.Equal(t, "integer", u.Members[0].(*Reference).Value().String())
	assert.Equal(t, "A", a.String())
}

func TestString(t *testing.T) {
	tests := []struct {
		in   Container
		want string
	}{
		{Literal(values.MustTypedInteger(42, corelib.U8)), "42u8"},
		{UnionOf(Text(), Integer()), "(text | integer)"},
		{IntersectionOf(Text(), Integer()), "(text & integer)"},
		{Unit(), "()"},
		{Type{Definition: Function{Parameters: []Parameter{{Name: "x", Type: Integer()}}, Return: Text()}}, "(x: integer) -> text"},
		{MapOf(Entry{Key: Literal(values.Text("value")), Value: Text()}), "{value: text}"},
		{ListOf(Integer(), Text()), "[integer, text]"},
		{Literal(values.Text("hi")).WithMutability(Mutable), `&mut "hi"`},
		{Type{Definition: Collection{Kind: ListCollection, Element: Integer(), Size: 3}}, "integer[3]"},
		{Type{Definition: Collection{Kind: SliceCollection, Element: Integer(), Size: -1}}, "integer[]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestMatches(t *testing.T) {
	u8 := CoreReference(corelib.Integer(corelib.U8))
	tests := []struct {
		name     string
		assigned Container
		target   Container
		want     bool
	}{
		{"literal to base", Literal(values.NewInteger(42)), Integer(), true},
		{"typed literal to base", Literal(values.MustTypedInteger(1, corelib.U8)), Integer(), true},
		{"typed literal to variant", Literal(values.MustTypedInteger(1, corelib.U8)), u8, true},
		{"variant to base", u8, Integer(), true},
		{"base to variant", Integer(), u8, false},
		{"text to integer", Literal(values.Text("x")), Integer(), false},
		{"union member", Literal(values.Text("x")), UnionOf(Text(), Integer()), true},
		{"union miss", Literal(values.Boolean(true)), UnionOf(Text(), Integer()), false},
		{"assigned union", UnionOf(Literal(values.NewInteger(1)), Literal(values.NewInteger(2))), Integer(), true},
		{"intersection", Literal(values.NewInteger(1)), IntersectionOf(Integer(), Integer()), true},
		{"literal target", Literal(values.NewInteger(1)), Literal(values.NewInteger(1)), true},
		{"literal target miss", Literal(values.NewInteger(2)), Literal(values.NewInteger(1)), false},
		{"unknown accepts", Literal(values.Text("x")), Unknown(), true},
		{"never assignable", Never(), Text(), true},
		{"structural list", ListOf(Literal(values.NewInteger(1))), ListOf(Integer()), true},
		{"structural list length", ListOf(Literal(values.NewInteger(1))), ListOf(Integer(), Integer()), false},
		{
			"structural map subset",
			MapOf(
				Entry{Key: Literal(values.Text("a")), Value: Literal(values.NewInteger(1))},
				Entry{Key: Literal(values.Text("b")), Value: Literal(values.Text("x"))},
			),
			MapOf(Entry{Key: Literal(values.Text("a")), Value: Integer()}),
			true,
		},
		{
			"slice collection",
			ListOf(Literal(values.NewInteger(1)), Literal(values.NewInteger(2))),
			Type{Definition: Collection{Kind: SliceCollection, Element: Integer(), Size: -1}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.assigned, tt.target))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Literal(values.NewInteger(1)), Literal(values.NewInteger(1))))
	assert.False(t, Equal(Literal(values.NewInteger(1)), Literal(values.MustTypedInteger(1, corelib.U8))))
	assert.True(t, Equal(UnionOf(Text(), Integer()), UnionOf(Text(), Integer())))
	assert.False(t, Equal(UnionOf(Text(), Integer()), UnionOf(Integer(), Text())))
	assert.False(t, Equal(Literal(values.Null{}), Literal(values.Null{}).WithMutability(Immutable)))
	assert.False(t, Equal(Integer(), ReferenceTo(Integer())))
}
