// Package token defines the lexical tokens of the DATEX script language.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS token names follow the lexer convention
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT           // foo, Übung
	INTEGER         // 42, 0xff, 0b101, 42u8, 1ibig
	DECIMAL         // 1.5, 1e10, 2.5f32
	FRACTION        // 3/4
	INFINITY        // infinity
	NAN             // nan
	STRING          // "hello", 'hello'
	ENDPOINT        // @jonas, @+unyt, @@anon
	POINTER_ADDRESS // $abcdef
	SLOT            // #0, #endpoint
	PLACEHOLDER     // ?

	// Operators and punctuation
	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE     // {
	RBRACE     // }
	LT         // <
	GT         // >
	LE         // <=
	GE         // >=
	PERCENT    // %
	PLUS       // +
	MINUS      // -
	STAR       // *
	CARET      // ^
	SLASH      // /
	COLON      // :
	DCOLON     // ::
	SEMICOLON  // ;
	COMMA      // ,
	DOT        // .
	RANGE      // ..
	SPREAD     // ...
	ASSIGN     // =
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	DIV_ASSIGN // /=
	ARROW      // ->
	FAT_ARROW  // =>
	AMP        // &
	PIPE       // |
	BANG       // !
	AND        // &&
	OR         // ||
	EQ         // ==
	NE         // !=
	SEQ        // ===
	SNE        // !==

	// Keywords
	IS
	MATCHES
	TRUE
	FALSE
	NULL
	CONST
	VAR
	MUT
	FINAL
	TYPE
	FUNCTION
	IF
	ELSE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= IS && t <= ELSE
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:           "IDENT",
	INTEGER:         "INTEGER",
	DECIMAL:         "DECIMAL",
	FRACTION:        "FRACTION",
	INFINITY:        "infinity",
	NAN:             "nan",
	STRING:          "STRING",
	ENDPOINT:        "ENDPOINT",
	POINTER_ADDRESS: "POINTER_ADDRESS",
	SLOT:            "SLOT",
	PLACEHOLDER:     "?",

	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LBRACE:     "{",
	RBRACE:     "}",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	PERCENT:    "%",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	CARET:      "^",
	SLASH:      "/",
	COLON:      ":",
	DCOLON:     "::",
	SEMICOLON:  ";",
	COMMA:      ",",
	DOT:        ".",
	RANGE:      "..",
	SPREAD:     "...",
	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	DIV_ASSIGN: "/=",
	ARROW:      "->",
	FAT_ARROW:  "=>",
	AMP:        "&",
	PIPE:       "|",
	BANG:       "!",
	AND:        "&&",
	OR:         "||",
	EQ:         "==",
	NE:         "!=",
	SEQ:        "===",
	SNE:        "!==",

	IS:       "is",
	MATCHES:  "matches",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
	CONST:    "const",
	VAR:      "var",
	MUT:      "mut",
	FINAL:    "final",
	TYPE:     "type",
	FUNCTION: "function",
	IF:       "if",
	ELSE:     "else",
}

// keywords maps reserved words to their token types. Keywords are case sensitive.
var keywords = map[string]TokenType{
	"is":       IS,
	"matches":  MATCHES,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"const":    CONST,
	"var":      VAR,
	"mut":      MUT,
	"final":    FINAL,
	"type":     TYPE,
	"function": FUNCTION,
	"if":       IF,
	"else":     ELSE,
	"infinity": INFINITY,
	"nan":      NAN,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Span    Span
}

func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
