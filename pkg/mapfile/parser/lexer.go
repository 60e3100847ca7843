package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// cursor is a read position in the source, passed and returned by value.
// On failure a grammar function may return a partly advanced cursor; the
// failure aborts the parse, so callers never resume from it.
type cursor struct {
	src string
	pos int
}

func (c cursor) eof() bool {
	return c.pos >= len(c.src)
}

// peek returns the current byte, or 0 at end of input.
func (c cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c cursor) advance(n int) cursor {
	c.pos += n
	return c
}

// failure is a parse failure at a byte offset. It is converted into a
// *mapErrors.Error by the Parser once the line index is needed.
type failure struct {
	pos      int
	kind     mapErrors.ErrorType
	expected string
	message  string
}

// fail reports that expected was not found at c. Failing at end of input
// is always classified as unexpected EOF.
func (c cursor) fail(kind mapErrors.ErrorType, expected string) *failure {
	if c.eof() {
		kind = mapErrors.ErrorTypeUnexpectedEOF
	}
	return &failure{
		pos:      c.pos,
		kind:     kind,
		expected: expected,
		message:  fmt.Sprintf("expected %s, found %s", expected, c.describe()),
	}
}

// describe names the byte under the cursor for error messages.
func (c cursor) describe() string {
	if c.eof() {
		return "end of input"
	}
	switch b := c.peek(); {
	case b == '\n':
		return "newline"
	case b < 0x20 || b >= 0x7f:
		return fmt.Sprintf("byte 0x%02x", b)
	default:
		return strconv.QuoteRune(rune(b))
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// skipSpace consumes whitespace and "//" comments. A comment runs to the
// end of the line or the end of input. It never fails.
func skipSpace(c cursor) cursor {
	for !c.eof() {
		b := c.peek()
		switch {
		case isSpace(b):
			c.pos++
		case b == '/' && strings.HasPrefix(c.src[c.pos:], "//"):
			nl := strings.IndexByte(c.src[c.pos:], '\n')
			if nl < 0 {
				c.pos = len(c.src)
			} else {
				c.pos += nl + 1
			}
		default:
			return c
		}
	}
	return c
}

// requireSpace is skipSpace that must consume at least one byte.
func requireSpace(c cursor, after string) (cursor, *failure) {
	next := skipSpace(c)
	if next.pos == c.pos {
		return c, c.fail(mapErrors.ErrorTypeMalformedToken, "whitespace after "+after)
	}
	return next, nil
}

// expectByte consumes the delimiter b.
func expectByte(c cursor, b byte, expected string) (cursor, *failure) {
	if c.peek() != b {
		return c, c.fail(mapErrors.ErrorTypeMissingDelimiter, expected)
	}
	return c.advance(1), nil
}

// scanDigits returns the index of the first non-digit at or after i.
func scanDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// number parses -?digit+(.digit+)?([eE][-+]?digit+)? as a float64.
// Integers and fractions are not distinguished.
func number(c cursor) (cursor, float64, *failure) {
	s := c.src
	start := c.pos
	i := start

	if i < len(s) && s[i] == '-' {
		i++
	}
	j := scanDigits(s, i)
	if j == i {
		return c, 0, c.fail(mapErrors.ErrorTypeMalformedToken, "number")
	}
	i = j

	if i < len(s) && s[i] == '.' {
		j = scanDigits(s, i+1)
		if j == i+1 {
			return c, 0, c.advance(j-start).fail(mapErrors.ErrorTypeMalformedToken, "digit after decimal point")
		}
		i = j
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		k := i + 1
		if k < len(s) && (s[k] == '-' || s[k] == '+') {
			k++
		}
		j = scanDigits(s, k)
		if j == k {
			return c, 0, c.advance(j-start).fail(mapErrors.ErrorTypeMalformedToken, "exponent digits")
		}
		i = j
	}

	// Out-of-range values saturate: ParseFloat yields ±Inf on overflow
	// and 0 on underflow.
	v, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return c, 0, &failure{
			pos:      start,
			kind:     mapErrors.ErrorTypeMalformedToken,
			expected: "number",
			message:  fmt.Sprintf("malformed number %q", s[start:i]),
		}
	}
	return c.advance(i - start), v, nil
}

// quotedString parses a '"'-delimited string. There are no escape
// sequences: the value ends at the next '"'.
func quotedString(c cursor) (cursor, string, *failure) {
	if c.peek() != '"' {
		return c, "", c.fail(mapErrors.ErrorTypeMalformedToken, "quoted string")
	}
	end := strings.IndexByte(c.src[c.pos+1:], '"')
	if end < 0 {
		return c, "", &failure{
			pos:      c.pos,
			kind:     mapErrors.ErrorTypeUnexpectedEOF,
			expected: "closing '\"'",
			message:  "unterminated quoted string",
		}
	}
	value := c.src[c.pos+1 : c.pos+1+end]
	return c.advance(end + 2), value, nil
}

// bareToken parses a run of non-whitespace bytes.
func bareToken(c cursor, expected string) (cursor, string, *failure) {
	i := c.pos
	for i < len(c.src) && !isSpace(c.src[i]) {
		i++
	}
	if i == c.pos {
		return c, "", c.fail(mapErrors.ErrorTypeMalformedToken, expected)
	}
	return c.advance(i - c.pos), c.src[c.pos:i], nil
}
