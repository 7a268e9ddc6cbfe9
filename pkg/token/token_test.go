package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"var", VAR},
		{"const", CONST},
		{"type", TYPE},
		{"matches", MATCHES},
		{"infinity", INFINITY},
		{"Var", IDENT},
		{"integer", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "===", SEQ.String())
	assert.Equal(t, "function", FUNCTION.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
	assert.True(t, ELSE.IsKeyword())
	assert.False(t, IDENT.IsKeyword())
}

func TestSpanContains(t *testing.T) {
	s := NewSpan(4, 8)
	assert.True(t, s.Contains(4))
	assert.True(t, s.Contains(8), "touching end boundary counts")
	assert.False(t, s.Contains(9))
	assert.False(t, s.Contains(3))
	assert.True(t, Span{}.IsZero())
	assert.Equal(t, NewSpan(1, 8), NewSpan(4, 8).Join(NewSpan(1, 2)))
}

func TestLineIndex(t *testing.T) {
	src := "var x = 1;\nvar 😀 = 'a';\nx"
	li := NewLineIndex(src)

	assert.Equal(t, Position{Line: 0, Column: 4, Offset: 4}, li.Position(4))

	// the emoji counts as two UTF-16 units
	second := len("var x = 1;\n")
	pos := li.Position(second + len("var 😀"))
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 6, pos.Column)

	assert.Equal(t, second+len("var 😀"), li.Offset(1, 6))
	assert.Equal(t, len(src), li.Offset(2, 99))
	assert.Equal(t, len(src), li.Offset(10, 0))
}
