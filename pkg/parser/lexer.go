package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/unyt-org/datex-go/pkg/token"
)

// Lexer tokenizes DATEX source.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination

	// Comments collected during lexing (for formatter and hover docs)
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next byte.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next byte without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.readPos+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.pos
	if l.atEOF() {
		return token.Token{Type: token.EOF, Span: token.NewSpan(start, start)}
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber()
	case l.ch == '"' || l.ch == '\'':
		return l.readString()
	case l.ch == '@':
		return l.readEndpoint()
	case l.ch == '$':
		return l.readPointerAddress()
	case l.ch == '#':
		return l.readSlot()
	case l.ch >= utf8.RuneSelf || isLetter(l.ch) || l.ch == '_':
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsLetter(r) || r == '_' {
			return l.readIdentifier()
		}
		l.advance(utf8.RuneLen(r))
		return l.emit(token.ILLEGAL, start)
	}

	return l.readPunctuation(start)
}

// punctuation lists operators longest first so that "===" wins over "==".
var punctuation = []struct {
	text string
	typ  token.TokenType
}{
	{"...", token.SPREAD},
	{"===", token.SEQ},
	{"!==", token.SNE},
	{"::", token.DCOLON},
	{"..", token.RANGE},
	{"+=", token.ADD_ASSIGN},
	{"-=", token.SUB_ASSIGN},
	{"*=", token.MUL_ASSIGN},
	{"/=", token.DIV_ASSIGN},
	{"->", token.ARROW},
	{"=>", token.FAT_ARROW},
	{"&&", token.AND},
	{"||", token.OR},
	{"==", token.EQ},
	{"!=", token.NE},
	{"<=", token.LE},
	{">=", token.GE},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"<", token.LT},
	{">", token.GT},
	{"%", token.PERCENT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.STAR},
	{"^", token.CARET},
	{"/", token.SLASH},
	{":", token.COLON},
	{";", token.SEMICOLON},
	{",", token.COMMA},
	{".", token.DOT},
	{"=", token.ASSIGN},
	{"&", token.AMP},
	{"|", token.PIPE},
	{"!", token.BANG},
	{"?", token.PLACEHOLDER},
}

func (l *Lexer) readPunctuation(start int) token.Token {
	rest := l.input[l.pos:]
	for _, p := range punctuation {
		if len(rest) >= len(p.text) && rest[:len(p.text)] == p.text {
			l.advance(len(p.text))
			return l.emit(p.typ, start)
		}
	}
	l.readChar()
	return l.emit(token.ILLEGAL, start)
}

func (l *Lexer) advance(n int) {
	for range n {
		l.readChar()
	}
}

// emit builds a token spanning from start to the current position.
func (l *Lexer) emit(t token.TokenType, start int) token.Token {
	return token.Token{Type: t, Literal: l.input[start:l.pos], Span: token.NewSpan(start, l.pos)}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	start := l.pos
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[start:l.pos],
		Span: token.NewSpan(start, l.pos),
	})
}

// collectBlockComment collects a block comment. An unterminated comment runs to EOF.
func (l *Lexer) collectBlockComment() {
	start := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			break
		}
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[start:l.pos],
		Span: token.NewSpan(start, l.pos),
	})
}

// readString reads a quoted string. The literal keeps quotes and escapes;
// an unterminated string becomes ILLEGAL.
func (l *Lexer) readString() token.Token {
	start := l.pos
	quote := l.ch
	l.readChar()
	for !l.atEOF() {
		switch l.ch {
		case '\\':
			l.readChar()
			if !l.atEOF() {
				l.readChar()
			}
			continue
		case quote:
			l.readChar()
			return l.emit(token.STRING, start)
		}
		l.readChar()
	}
	return l.emit(token.ILLEGAL, start)
}

// readIdentifier reads an identifier and normalizes it to NFC.
func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for !l.atEOF() {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && r != '_' {
			break
		}
		l.advance(size)
	}
	tok := l.emit(token.IDENT, start)
	tok.Literal = norm.NFC.String(tok.Literal)
	tok.Type = token.LookupIdent(tok.Literal)
	return tok
}

// numberSuffixes are the variant suffixes a numeric literal may carry.
var numberSuffixes = []string{
	"u128", "u64", "u32", "u16", "u8",
	"i128", "i64", "i32", "i16", "i8", "ibig",
	"f32", "f64", "dbig",
}

// readNumber reads integers (decimal, 0x, 0o, 0b), decimals with optional
// exponent, fractions like 3/4, and an optional variant suffix.
func (l *Lexer) readNumber() token.Token {
	start := l.pos

	if l.ch == '0' {
		var isDigitFn func(byte) bool
		switch l.peekChar() {
		case 'x', 'X':
			isDigitFn = isHexDigit
		case 'o', 'O':
			isDigitFn = func(c byte) bool { return c >= '0' && c <= '7' }
		case 'b', 'B':
			isDigitFn = func(c byte) bool { return c == '0' || c == '1' }
		}
		if isDigitFn != nil && isDigitFn(l.peekAt(1)) {
			l.advance(2)
			for isDigitFn(l.ch) || l.ch == '_' {
				l.readChar()
			}
			l.readSuffix()
			return l.emit(token.INTEGER, start)
		}
	}

	l.readDigits()

	// fraction: 3/4 with no whitespace
	if l.ch == '/' && isDigit(l.peekChar()) {
		l.readChar()
		l.readDigits()
		return l.emit(token.FRACTION, start)
	}

	typ := token.INTEGER
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.DECIMAL
		l.readChar()
		l.readDigits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(1))) {
			typ = token.DECIMAL
			l.advance(2)
			l.readDigits()
		}
	}

	if suffix := l.readSuffix(); strings.HasPrefix(suffix, "f") || suffix == "dbig" {
		typ = token.DECIMAL
	}
	return l.emit(typ, start)
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || (l.ch == '_' && isDigit(l.peekChar())) {
		l.readChar()
	}
}

// readSuffix consumes a variant suffix if one follows and is not the
// start of a longer identifier.
func (l *Lexer) readSuffix() string {
	rest := l.input[l.pos:]
	for _, s := range numberSuffixes {
		if len(rest) < len(s) || rest[:len(s)] != s {
			continue
		}
		if len(rest) > len(s) && (isLetter(rest[len(s)]) || isDigit(rest[len(s)]) || rest[len(s)] == '_') {
			continue
		}
		l.advance(len(s))
		return s
	}
	return ""
}

// readEndpoint reads @name, @+name or @@name.
func (l *Lexer) readEndpoint() token.Token {
	start := l.pos
	l.readChar()
	if l.ch == '+' || l.ch == '@' {
		l.readChar()
	}
	nameStart := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '-' {
		l.readChar()
	}
	if l.pos == nameStart {
		return l.emit(token.ILLEGAL, start)
	}
	return l.emit(token.ENDPOINT, start)
}

// readPointerAddress reads $ followed by 6, 10 or 52 hex digits.
func (l *Lexer) readPointerAddress() token.Token {
	start := l.pos
	l.readChar()
	n := 0
	for isHexDigit(l.ch) {
		l.readChar()
		n++
	}
	switch n {
	case 6, 10, 52:
		return l.emit(token.POINTER_ADDRESS, start)
	}
	return l.emit(token.ILLEGAL, start)
}

// readSlot reads #0 or #name.
func (l *Lexer) readSlot() token.Token {
	start := l.pos
	l.readChar()
	switch {
	case isDigit(l.ch):
		for isDigit(l.ch) {
			l.readChar()
		}
	case isLetter(l.ch) || l.ch == '_':
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	default:
		return l.emit(token.ILLEGAL, start)
	}
	return l.emit(token.SLOT, start)
}

// Tokenize returns all tokens of input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
