package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// UnescapeText decodes the escape sequences of a text literal body (quotes
// already stripped). UTF-16 surrogate pairs written as two \u escapes are
// combined; a lone surrogate is kept verbatim as \uXXXX with uppercase hex.
// Unknown escapes are kept as written.
func UnescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case '"', '\'', '\\':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			code, ok := hex4(s, i+1)
			if !ok {
				b.WriteString(`\u`)
				continue
			}
			i += 4
			r := rune(code)
			if utf16.IsSurrogate(r) {
				if r < 0xDC00 {
					if low, ok := lowSurrogate(s, i+1); ok {
						b.WriteRune(utf16.DecodeRune(r, low))
						i += 6
						continue
					}
				}
				fmt.Fprintf(&b, `\u%04X`, code)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// hex4 reads four hex digits starting at s[i].
func hex4(s string, i int) (uint64, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	code, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return code, true
}

// lowSurrogate reads a "\uDC00".."\uDFFF" escape starting at s[i].
func lowSurrogate(s string, i int) (rune, bool) {
	if i+6 > len(s) || s[i] != '\\' || s[i+1] != 'u' {
		return 0, false
	}
	code, ok := hex4(s, i+2)
	if !ok || code < 0xDC00 || code > 0xDFFF {
		return 0, false
	}
	return rune(code), true
}
