package object

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Text is the content of a java/lang/String: a sequence of UTF-16 code
// units. Unpaired surrogates are kept as they are, so char level
// transformations round trip exactly. Text values held by a reference are
// never modified.
type Text []uint16

// TextOf encodes a host string.
func TextOf(s string) Text {
	return utf16.Encode([]rune(s))
}

// String decodes the units into a host string. Unpaired surrogates become
// U+FFFD, so this is only for output.
func (t Text) String() string {
	return string(utf16.Decode(t))
}

// Equal reports whether both texts hold the same units.
func (t Text) Equal(other Text) bool {
	return slices.Equal(t, other)
}

// Runes calls fn for each code point. An unpaired surrogate is passed with
// paired set to false.
func (t Text) Runes(fn func(r rune, paired bool)) {
	for i := 0; i < len(t); i++ {
		c := rune(t[i])
		if utf16.IsSurrogate(c) {
			if i+1 < len(t) {
				if r := utf16.DecodeRune(c, rune(t[i+1])); r != unicode.ReplacementChar {
					fn(r, true)
					i++
					continue
				}
			}
			fn(c, false)
			continue
		}
		fn(c, true)
	}
}

// Quote returns a double-quoted literal. Unpaired surrogates are written as
// \u escapes.
func (t Text) Quote() string {
	var b strings.Builder
	b.WriteByte('"')
	t.Runes(func(r rune, paired bool) {
		if !paired {
			fmt.Fprintf(&b, `\u%04x`, r)
			return
		}
		q := strconv.Quote(string(r))
		b.WriteString(q[1 : len(q)-1])
	})
	b.WriteByte('"')
	return b.String()
}
