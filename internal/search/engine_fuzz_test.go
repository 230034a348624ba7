package search

import (
	"strings"
	"testing"
)

// FuzzEscapeLike checks that escaping never leaves a bare wildcard behind
func FuzzEscapeLike(f *testing.F) {
	f.Add("love")
	f.Add("100%")
	f.Add("a_b")
	f.Add(`\`)
	f.Add(`\%_`)
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		escaped := escapeLike(input)

		// Undo the escaping; every wildcard must have been preceded by a backslash.
		var b strings.Builder
		for i := 0; i < len(escaped); i++ {
			c := escaped[i]
			switch c {
			case '\\':
				if i+1 >= len(escaped) {
					t.Fatalf("dangling escape in %q", escaped)
				}
				i++
				b.WriteByte(escaped[i])
			case '%', '_':
				t.Fatalf("unescaped wildcard in %q", escaped)
			default:
				b.WriteByte(c)
			}
		}

		if b.String() != input {
			t.Errorf("round trip %q -> %q -> %q", input, escaped, b.String())
		}
	})
}
