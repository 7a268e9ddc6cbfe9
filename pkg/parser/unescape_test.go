package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unyt-org/datex-go/pkg/parser"
)

func TestUnescapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\"b`, `a"b`},
		{`it\'s`, "it's"},
		{`a\nb\tc\r`, "a\nb\tc\r"},
		{`back\\slash`, `back\slash`},
		{`\b\f`, "\b\f"},
		{`\u0041`, "A"},
		{`\uD83D\uDE00`, "\U0001F600"},
		{`\uD83D`, `\uD83D`},
		{`\ud83d`, `\uD83D`},
		{`\uD83Dx`, `\uD83Dx`},
		{`\uDE00`, `\uDE00`},
		{`\u00`, `\u00`},
		{`\q`, `\q`},
		{`end\`, `end\`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.UnescapeText(tt.in))
		})
	}
}
