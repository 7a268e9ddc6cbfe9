package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unyt-org/datex-go/pkg/parser"
	"github.com/unyt-org/datex-go/pkg/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "declaration",
			input: "var x = 42u8;",
			want:  []token.TokenType{token.VAR, token.IDENT, token.ASSIGN, token.INTEGER, token.SEMICOLON, token.EOF},
		},
		{
			name:  "numbers",
			input: "1.5 3/4 0xff 1e10 2f32 1_000 infinity nan",
			want: []token.TokenType{
				token.DECIMAL, token.FRACTION, token.INTEGER, token.DECIMAL,
				token.DECIMAL, token.INTEGER, token.INFINITY, token.NAN, token.EOF,
			},
		},
		{
			name:  "references and slots",
			input: "$abcdef @jonas @+unyt @@anon #0 #endpoint ?",
			want: []token.TokenType{
				token.POINTER_ADDRESS, token.ENDPOINT, token.ENDPOINT, token.ENDPOINT,
				token.SLOT, token.SLOT, token.PLACEHOLDER, token.EOF,
			},
		},
		{
			name:  "longest operator wins",
			input: "=== !== == != <= >= :: .. ... -> => && || += -=",
			want: []token.TokenType{
				token.SEQ, token.SNE, token.EQ, token.NE, token.LE, token.GE, token.DCOLON,
				token.RANGE, token.SPREAD, token.ARROW, token.FAT_ARROW, token.AND, token.OR,
				token.ADD_ASSIGN, token.SUB_ASSIGN, token.EOF,
			},
		},
		{
			name:  "keywords",
			input: "if else is matches type function mut final",
			want: []token.TokenType{
				token.IF, token.ELSE, token.IS, token.MATCHES, token.TYPE,
				token.FUNCTION, token.MUT, token.FINAL, token.EOF,
			},
		},
		{
			name:  "strings",
			input: `"a\"b" 'c'`,
			want:  []token.TokenType{token.STRING, token.STRING, token.EOF},
		},
		{
			name:  "illegal",
			input: `$abc "open`,
			want:  []token.TokenType{token.ILLEGAL, token.ILLEGAL, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(parser.Tokenize(tt.input)))
		})
	}
}

func TestLexerSpans(t *testing.T) {
	tokens := parser.Tokenize("var  xy = 1")
	require.Len(t, tokens, 5)
	assert.Equal(t, token.NewSpan(0, 3), tokens[0].Span)
	assert.Equal(t, token.NewSpan(5, 7), tokens[1].Span)
	assert.Equal(t, "xy", tokens[1].Literal)
	assert.Equal(t, token.NewSpan(11, 11), tokens[4].Span)
}

func TestLexerComments(t *testing.T) {
	l := parser.NewLexer("1 // line\n/* block */ 2")
	for l.NextToken().Type != token.EOF {
	}

	require.Len(t, l.Comments, 2)
	assert.Equal(t, token.LineComment, l.Comments[0].Kind)
	assert.Equal(t, "// line", l.Comments[0].Text)
	assert.Equal(t, token.BlockComment, l.Comments[1].Kind)
	assert.Equal(t, "/* block */", l.Comments[1].Text)
}

func TestLexerNormalizesIdentifiers(t *testing.T) {
	tokens := parser.Tokenize("U\u0308bung")
	require.Len(t, tokens, 2)
	assert.Equal(t, token.IDENT, tokens[0].Type)
	assert.Equal(t, "\u00dcbung", tokens[0].Literal)
}
