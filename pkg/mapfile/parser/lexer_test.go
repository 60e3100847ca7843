package parser

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"nothing to skip", "{", 0},
		{"mixed whitespace", " \t\r\n{", 4},
		{"comment", "// hi\n{", 6},
		{"comment at end of input", "  // no newline", 15},
		{"single slash is not a comment", "/x", 0},
		{"comments and blank lines", "// a\n\n   // b\n\t(", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skipSpace(cursor{src: tt.src})
			if got.pos != tt.want {
				t.Errorf("skipSpace(%q).pos = %d, want %d", tt.src, got.pos, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		src  string
		want float64
		end  int
	}{
		{"0", 0, 1},
		{"-0", 0, 2},
		{"128", 128, 3},
		{"-64", -64, 3},
		{"0.5", 0.5, 3},
		{"-16.25 ", -16.25, 6},
		{"1.5e-05", 1.5e-05, 7},
		{"2E3", 2000, 3},
		{"1e+06", 1e6, 5},
		{"3)", 3, 1},
		{"4]", 4, 1},
		{"1e400", math.Inf(1), 5},
		{"-1e400", math.Inf(-1), 6},
		{"1e-400", 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, v, f := number(cursor{src: tt.src})
			if f != nil {
				t.Fatalf("number(%q) failed: %s", tt.src, f.message)
			}
			if v != tt.want {
				t.Errorf("number(%q) = %v, want %v", tt.src, v, tt.want)
			}
			if c.pos != tt.end {
				t.Errorf("number(%q) consumed %d bytes, want %d", tt.src, c.pos, tt.end)
			}
		})
	}
}

func TestNumber_Invalid(t *testing.T) {
	tests := []struct {
		src    string
		pos    int
		errTyp mapErrors.ErrorType
	}{
		{"", 0, mapErrors.ErrorTypeUnexpectedEOF},
		{"-", 0, mapErrors.ErrorTypeMalformedToken},
		{".5", 0, mapErrors.ErrorTypeMalformedToken},
		{"+1", 0, mapErrors.ErrorTypeMalformedToken},
		{"1.", 2, mapErrors.ErrorTypeUnexpectedEOF},
		{"1.x", 2, mapErrors.ErrorTypeMalformedToken},
		{"1e", 2, mapErrors.ErrorTypeUnexpectedEOF},
		{"1e-x", 3, mapErrors.ErrorTypeMalformedToken},
		{"abc", 0, mapErrors.ErrorTypeMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, _, f := number(cursor{src: tt.src})
			if f == nil {
				t.Fatalf("number(%q) succeeded, want failure", tt.src)
			}
			if c.pos != 0 {
				t.Errorf("failed number consumed input: pos = %d", c.pos)
			}
			if f.pos != tt.pos {
				t.Errorf("failure pos = %d, want %d", f.pos, tt.pos)
			}
			if f.kind != tt.errTyp {
				t.Errorf("failure kind = %q, want %q", f.kind, tt.errTyp)
			}
		})
	}
}

func TestQuotedString(t *testing.T) {
	tests := []struct {
		src  string
		want string
		end  int
	}{
		{`""`, "", 2},
		{`"worldspawn" "x"`, "worldspawn", 12},
		{`"a b\"`, `a b\`, 6},
		{"\"two\nlines\"", "two\nlines", 11},
	}

	for _, tt := range tests {
		c, v, f := quotedString(cursor{src: tt.src})
		if f != nil {
			t.Errorf("quotedString(%q) failed: %s", tt.src, f.message)
			continue
		}
		if v != tt.want || c.pos != tt.end {
			t.Errorf("quotedString(%q) = %q (pos %d), want %q (pos %d)", tt.src, v, c.pos, tt.want, tt.end)
		}
	}
}

func TestQuotedString_Invalid(t *testing.T) {
	if _, _, f := quotedString(cursor{src: `worldspawn"`}); f == nil || f.kind != mapErrors.ErrorTypeMalformedToken {
		t.Errorf("missing opening quote: failure = %+v", f)
	}
	_, _, f := quotedString(cursor{src: `x "open`, pos: 2})
	if f == nil {
		t.Fatal("unterminated string should fail")
	}
	if f.pos != 2 || f.kind != mapErrors.ErrorTypeUnexpectedEOF {
		t.Errorf("failure = %+v, want unexpected EOF at 2", f)
	}
}

func TestPoint(t *testing.T) {
	tests := []struct {
		src  string
		want mgl64.Vec3
	}{
		{"(1 2 3)", mgl64.Vec3{1, 2, 3}},
		{"( -64 -64.5 16 )", mgl64.Vec3{-64, -64.5, 16}},
		{"(\t0\n0 // c\n0)", mgl64.Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		c, v, f := point(cursor{src: tt.src})
		if f != nil {
			t.Errorf("point(%q) failed: %s", tt.src, f.message)
			continue
		}
		if v != tt.want {
			t.Errorf("point(%q) = %v, want %v", tt.src, v, tt.want)
		}
		if !c.eof() {
			t.Errorf("point(%q) left %q unconsumed", tt.src, tt.src[c.pos:])
		}
	}
}

func TestUVAxis(t *testing.T) {
	c, axis, f := uvAxis(cursor{src: "[ 0 -1 0 -20 ] rest"})
	if f != nil {
		t.Fatalf("uvAxis() failed: %s", f.message)
	}
	if axis.Direction != (mgl64.Vec3{0, -1, 0}) || axis.Offset != -20 {
		t.Errorf("uvAxis() = %+v", axis)
	}
	if c.pos != 14 {
		t.Errorf("pos = %d, want 14", c.pos)
	}

	for _, src := range []string{"[1 0 0]", "[1 0 0 0 0]", "(1 0 0 0)", "[1 0 0 0"} {
		if _, _, f := uvAxis(cursor{src: src}); f == nil {
			t.Errorf("uvAxis(%q) succeeded, want failure", src)
		}
	}
}

func TestBareToken(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"WALL 0", "WALL"},
		{"{BLUE\t", "{BLUE"},
		{"*04water1\n", "*04water1"},
		{"+0button", "+0button"},
		{"sky/day", "sky/day"},
	}
	for _, tt := range tests {
		_, v, f := bareToken(cursor{src: tt.src}, "texture name")
		if f != nil || v != tt.want {
			t.Errorf("bareToken(%q) = %q, %v; want %q", tt.src, v, f, tt.want)
		}
	}

	if _, _, f := bareToken(cursor{src: " WALL"}, "texture name"); f == nil {
		t.Error("bareToken() at whitespace should fail")
	}
}
