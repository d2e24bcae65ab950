package parley_test

import (
	"testing"

	"github.com/fwojciec/parley"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "hello, world", "hello, world"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
		{"strips color codes", "\x1b[31mred\x1b[0m", "red"},
		{"strips cursor movement", "up\x1b[2Ahere", "uphere"},
		{"strips OSC title", "\x1b]0;pwned\x07text", "text"},
		{"normalizes CRLF", "one\r\ntwo", "one\ntwo"},
		{"drops lone CR", "abc\rdef", "abcdef"},
		{"drops bell and delete", "a\x07b\x7fc", "abc"},
		{"drops C1 controls", "a\u009b31mb\u0085c", "a31mbc"},
		{"keeps unicode", "café 👋", "café 👋"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parley.SanitizeBody(tt.in))
		})
	}
}
