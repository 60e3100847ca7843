package parser

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := NewParser().ParseString(src, "memory://test")
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	return doc
}

func mustFail(t *testing.T, src string) *mapErrors.Error {
	t.Helper()
	doc, err := NewParser().ParseString(src, "memory://test")
	if err == nil {
		t.Fatalf("ParseString(%q) succeeded with %d entities, want error", src, len(doc.Entities))
	}
	var perr *mapErrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	return perr
}

// withoutLocations returns a copy of doc with every Location zeroed so
// documents that differ only in layout compare equal.
func withoutLocations(doc *ast.Document) *ast.Document {
	out := &ast.Document{}
	for _, entity := range doc.Entities {
		e := ast.Entity{Properties: entity.Properties}
		for _, brush := range entity.Brushes {
			b := ast.Brush{}
			for _, face := range brush.Faces {
				face.Location = ast.Location{}
				b.Faces = append(b.Faces, face)
			}
			e.Brushes = append(e.Brushes, b)
		}
		out.Entities = append(out.Entities, e)
	}
	return out
}

func TestParser_ParseString_PointEntity(t *testing.T) {
	doc := mustParse(t, `{"classname" "info_player_start"}`)

	if len(doc.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(doc.Entities))
	}
	entity := doc.Entities[0]
	if len(entity.Properties) != 1 {
		t.Errorf("len(Properties) = %d, want 1", len(entity.Properties))
	}
	if got := entity.ClassName(); got != "info_player_start" {
		t.Errorf("ClassName() = %q, want %q", got, "info_player_start")
	}
	if !entity.IsPoint() {
		t.Error("entity should be a point entity")
	}
}

func TestParser_ParseString_StandardFace(t *testing.T) {
	doc := mustParse(t, `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1 1}}`)

	if len(doc.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(doc.Entities))
	}
	if len(doc.Entities[0].Properties) != 0 {
		t.Errorf("len(Properties) = %d, want 0", len(doc.Entities[0].Properties))
	}
	if len(doc.Entities[0].Brushes) != 1 {
		t.Fatalf("len(Brushes) = %d, want 1", len(doc.Entities[0].Brushes))
	}
	faces := doc.Entities[0].Brushes[0].Faces
	if len(faces) != 1 {
		t.Fatalf("len(Faces) = %d, want 1", len(faces))
	}

	face := faces[0]
	wantPoints := [3]mgl64.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}
	if face.Plane.Points != wantPoints {
		t.Errorf("Plane.Points = %v, want %v", face.Plane.Points, wantPoints)
	}
	if face.Texture != "WALL" {
		t.Errorf("Texture = %q, want %q", face.Texture, "WALL")
	}

	std, ok := face.Alignment.(ast.StandardAlignment)
	if !ok {
		t.Fatalf("Alignment type = %T, want ast.StandardAlignment", face.Alignment)
	}
	want := ast.StandardAlignment{Offset: mgl64.Vec2{0, 0}, Rotation: 0, Scale: mgl64.Vec2{1, 1}}
	if std != want {
		t.Errorf("Alignment = %+v, want %+v", std, want)
	}
	if face.Dialect() != ast.DialectStandard {
		t.Errorf("Dialect() = %q, want %q", face.Dialect(), ast.DialectStandard)
	}
}

func TestParser_ParseString_ValveFace(t *testing.T) {
	doc := mustParse(t, `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) WALL [1 0 0 0] [0 1 0 0] 0 1 1
}
}`)

	face := doc.Entities[0].Brushes[0].Faces[0]
	valve, ok := face.Alignment.(ast.ValveAlignment)
	if !ok {
		t.Fatalf("Alignment type = %T, want ast.ValveAlignment", face.Alignment)
	}
	want := ast.ValveAlignment{
		U:        ast.UVAxis{Direction: mgl64.Vec3{1, 0, 0}, Offset: 0},
		V:        ast.UVAxis{Direction: mgl64.Vec3{0, 1, 0}, Offset: 0},
		Rotation: 0,
		Scale:    mgl64.Vec2{1, 1},
	}
	if valve != want {
		t.Errorf("Alignment = %+v, want %+v", valve, want)
	}
	if face.Dialect() != ast.DialectValve220 {
		t.Errorf("Dialect() = %q, want %q", face.Dialect(), ast.DialectValve220)
	}
}

func TestParser_ParseString_ValveValues(t *testing.T) {
	doc := mustParse(t, `{{( 64 64 16 ) ( 64 64 17 ) ( 64 65 16 ) {FENCE [ 0 1 0 16.5 ] [ 0 0 -1 -8 ] 45 0.5 -0.25}}`)

	face := doc.Entities[0].Brushes[0].Faces[0]
	if face.Texture != "{FENCE" {
		t.Errorf("Texture = %q, want %q", face.Texture, "{FENCE")
	}
	valve := face.Alignment.(ast.ValveAlignment)
	if valve.U.Offset != 16.5 {
		t.Errorf("U.Offset = %v, want 16.5", valve.U.Offset)
	}
	if valve.V.Direction != (mgl64.Vec3{0, 0, -1}) || valve.V.Offset != -8 {
		t.Errorf("V = %+v, want direction (0,0,-1) offset -8", valve.V)
	}
	if valve.Rotation != 45 {
		t.Errorf("Rotation = %v, want 45", valve.Rotation)
	}
	if valve.Scale != (mgl64.Vec2{0.5, -0.25}) {
		t.Errorf("Scale = %v, want (0.5, -0.25)", valve.Scale)
	}
}

func TestParser_ParseString_OutOfRangeNumbers(t *testing.T) {
	doc := mustParse(t, `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1e-400 1e400}}`)

	std := doc.Entities[0].Brushes[0].Faces[0].Alignment.(ast.StandardAlignment)
	if std.Scale[0] != 0 {
		t.Errorf("Scale.X = %v, want 0", std.Scale[0])
	}
	if !math.IsInf(std.Scale[1], 1) {
		t.Errorf("Scale.Y = %v, want +Inf", std.Scale[1])
	}
}

func TestParser_ParseString_UnterminatedString(t *testing.T) {
	perr := mustFail(t, `{"classname" "foo}`)

	if perr.Offset < 13 {
		t.Errorf("Offset = %d, want >= 13 (the opening quote)", perr.Offset)
	}
	if perr.Type != mapErrors.ErrorTypeUnexpectedEOF {
		t.Errorf("Type = %q, want %q", perr.Type, mapErrors.ErrorTypeUnexpectedEOF)
	}
	if !strings.Contains(perr.Message, "unterminated") {
		t.Errorf("Message = %q, want it to mention the unterminated string", perr.Message)
	}
}

func TestParser_ParseString_CommentBetweenEntities(t *testing.T) {
	doc := mustParse(t, "{\"classname\" \"worldspawn\"}\n\n// second entity\n{\"classname\" \"light\"}\n")

	if len(doc.Entities) != 2 {
		t.Fatalf("len(Entities) = %d, want 2", len(doc.Entities))
	}
	if got := doc.Entities[0].ClassName(); got != "worldspawn" {
		t.Errorf("Entities[0].ClassName() = %q, want %q", got, "worldspawn")
	}
	if got := doc.Entities[1].ClassName(); got != "light" {
		t.Errorf("Entities[1].ClassName() = %q, want %q", got, "light")
	}
	if loc := doc.Entities[1].Location; loc.Line != 4 || loc.Column != 1 {
		t.Errorf("Entities[1].Location = %d:%d, want 4:1", loc.Line, loc.Column)
	}
}

func TestParser_ParseString_EmptyInputs(t *testing.T) {
	inputs := map[string]string{
		"empty":               "",
		"spaces":              "   \t  ",
		"newlines":            "\n\r\n\n",
		"comment only":        "// Game: Quake\n// Format: Standard\n",
		"comment without EOL": "// trailing comment",
		"byte order mark":     "\xef\xbb\xbf\n",
	}

	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			doc := mustParse(t, src)
			if len(doc.Entities) != 0 {
				t.Errorf("len(Entities) = %d, want 0", len(doc.Entities))
			}
		})
	}
}

func TestParser_ParseString_TrailingContent(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		errTyp mapErrors.ErrorType
	}{
		{"garbage after entity", `{"classname" "worldspawn"} x`, 27, mapErrors.ErrorTypeTrailingContent},
		{"extra closing brace", `{"classname" "worldspawn"}}`, 26, mapErrors.ErrorTypeTrailingContent},
		{"garbage only", `worldspawn`, 0, mapErrors.ErrorTypeTrailingContent},
		{"garbage after comment", "// c\n;", 5, mapErrors.ErrorTypeTrailingContent},
		{"unclosed entity", `{"classname" "worldspawn"`, 25, mapErrors.ErrorTypeUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := mustFail(t, tt.src)
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", perr.Offset, tt.offset)
			}
			if perr.Type != tt.errTyp {
				t.Errorf("Type = %q, want %q", perr.Type, tt.errTyp)
			}
		})
	}
}

func TestParser_ParseString_MalformedBracketDoesNotFallBack(t *testing.T) {
	perr := mustFail(t, `{{(0 0 0)(0 1 0)(1 0 0) WALL [1 0 0] [0 1 0 0] 0 1 1}}`)

	if perr.Type != mapErrors.ErrorTypeMalformedToken {
		t.Errorf("Type = %q, want %q", perr.Type, mapErrors.ErrorTypeMalformedToken)
	}
	// position of the first ']'
	if perr.Offset != 35 {
		t.Errorf("Offset = %d, want 35", perr.Offset)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		errTyp mapErrors.ErrorType
	}{
		{"brush without faces", `{{}}`, 2, mapErrors.ErrorTypeMissingDelimiter},
		{"brush never closed", `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1 1`, 38, mapErrors.ErrorTypeUnexpectedEOF},
		{"point with two numbers", `{{(0 0)(0 1 0)(1 0 0) WALL 0 0 0 1 1}}`, 6, mapErrors.ErrorTypeMalformedToken},
		{"point with four numbers", `{{(0 0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1 1}}`, 9, mapErrors.ErrorTypeMissingDelimiter},
		{"numbers without space", `{{(0 0-1)(0 1 0)(1 0 0) WALL 0 0 0 1 1}}`, 6, mapErrors.ErrorTypeMalformedToken},
		{"plane at end of input", `{{(0 0 0)(0 1 0)(1 0 0)`, 23, mapErrors.ErrorTypeUnexpectedEOF},
		{"too few standard values", `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1}}`, 36, mapErrors.ErrorTypeMalformedToken},
		{"bad number", `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 x 1 1}}`, 33, mapErrors.ErrorTypeMalformedToken},
		{"dangling decimal point", `{{(0 0 0)(0 1 0)(1. 0 0) WALL 0 0 0 1 1}}`, 19, mapErrors.ErrorTypeMalformedToken},
		{"key without value", `{"classname"}`, 12, mapErrors.ErrorTypeMalformedToken},
		{"unquoted key", `{classname "light"}`, 1, mapErrors.ErrorTypeMalformedToken},
		{"value without space", `{"classname""light"}`, 12, mapErrors.ErrorTypeMalformedToken},
		{"stray token in brush", `{{(0 0 0)(0 1 0)(1 0 0) WALL 0 0 0 1 1 x}}`, 39, mapErrors.ErrorTypeMissingDelimiter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := mustFail(t, tt.src)
			if perr.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d (%s)", perr.Offset, tt.offset, perr.Message)
			}
			if perr.Type != tt.errTyp {
				t.Errorf("Type = %q, want %q", perr.Type, tt.errTyp)
			}
			if perr.Expected == "" {
				t.Error("Expected should describe the missing construct")
			}
			if perr.Location.Line != 1 || perr.Location.Column != tt.offset+1 {
				t.Errorf("Location = %d:%d, want 1:%d", perr.Location.Line, perr.Location.Column, tt.offset+1)
			}
		})
	}
}

func TestParser_ParseString_WhitespaceInsensitive(t *testing.T) {
	compact := `{"classname" "worldspawn" {(0 0 0)(0 1 0)(1 0 0) WALL [1 0 0 0][0 1 0 0]0 1 1 (0 0 0)(0 0 1)(0 1 0) WALL 0 0 0 1 1}}{"classname" "light"}`
	spaced := "\n\t// header\n{ \r\n  \"classname\"\t\t\"worldspawn\"  // trailing comment\n\n" +
		"  {\n    (  0 0 0  ) ( 0  1 0 )\n( 1 0 0 )  WALL   [ 1 0 0 0 ]  // axis\n [ 0 1 0 0 ] 0\n 1 1\n" +
		"    ( 0 0 0 ) ( 0 0 1 ) ( 0 1 0 ) WALL 0 0 0 1 1 // last face\n  }\n}\n\n// light\n{\n\"classname\" \"light\"\n}\n// end\n"

	a := withoutLocations(mustParse(t, compact))
	b := withoutLocations(mustParse(t, spaced))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("layout changed the parsed document:\ncompact = %+v\nspaced  = %+v", a, b)
	}
}

func TestParser_ParseString_Idempotent(t *testing.T) {
	data, err := os.ReadFile("testdata/valid/valve220.map")
	if err != nil {
		t.Fatal(err)
	}

	first := mustParse(t, string(data))
	second := mustParse(t, string(data))
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same input twice produced different documents")
	}
}

func TestParser_ParseString_Concurrent(t *testing.T) {
	data, err := os.ReadFile("testdata/valid/valve220.map")
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser()
	want, err := p.ParseString(string(data), "valve220.map")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]*ast.Document, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := p.ParseString(string(data), "valve220.map")
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
				return
			}
			results[i] = doc
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != nil && !reflect.DeepEqual(got, want) {
			t.Errorf("goroutine %d produced a different document", i)
		}
	}
}

func TestParser_ParseString_DuplicateKeysLastWins(t *testing.T) {
	doc := mustParse(t, `{"classname" "light" "light" "200" "light" "300"}`)

	if got := doc.Entities[0].Properties["light"]; got != "300" {
		t.Errorf("Properties[light] = %q, want %q", got, "300")
	}
}

func TestParser_ParseString_PropertyValues(t *testing.T) {
	doc := mustParse(t, "{\"message\" \"line one\nline two\" \"empty\" \"\" \"path\" \"C:\\maps\\e1m1\" \"Case\" \"upper\" \"case\" \"lower\"}")

	props := doc.Entities[0].Properties
	tests := map[string]string{
		"message": "line one\nline two",
		"empty":   "",
		"path":    `C:\maps\e1m1`,
		"Case":    "upper",
		"case":    "lower",
	}
	for key, want := range tests {
		got, ok := props.Get(key)
		if !ok {
			t.Errorf("missing property %q", key)
			continue
		}
		if got != want {
			t.Errorf("Properties[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestParser_ParseString_InterleavedBrushesAndProperties(t *testing.T) {
	doc := mustParse(t, `{
{ ( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) FIRST 0 0 0 1 1 }
"classname" "func_wall"
{ ( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) SECOND 0 0 0 1 1 }
"targetname" "w1"
}`)

	entity := doc.Entities[0]
	if len(entity.Brushes) != 2 {
		t.Fatalf("len(Brushes) = %d, want 2", len(entity.Brushes))
	}
	if entity.Brushes[0].Faces[0].Texture != "FIRST" || entity.Brushes[1].Faces[0].Texture != "SECOND" {
		t.Error("brushes are not in file order")
	}
	if entity.ClassName() != "func_wall" || entity.Properties["targetname"] != "w1" {
		t.Errorf("Properties = %v", entity.Properties)
	}
}

func TestParser_ParseString_EditorKeys(t *testing.T) {
	src := `{"classname" "func_group" "_tb_type" "_tb_layer" "_tb_id" "2" "_tb_name_like" "x"}`

	doc, err := NewParser().ParseString(src, "memory://test")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Entities[0].Properties) != 4 {
		t.Errorf("default parser kept %d properties, want 4", len(doc.Entities[0].Properties))
	}

	doc, err = NewParser().WithEditorKeys(false).ParseString(src, "memory://test")
	if err != nil {
		t.Fatal(err)
	}
	props := doc.Entities[0].Properties
	if len(props) != 1 || props.ClassName() != "func_group" {
		t.Errorf("Properties = %v, want only classname", props)
	}
}

func TestParser_Parse_ValveFile(t *testing.T) {
	doc, err := NewParser().Parse("testdata/valid/valve220.map")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if len(doc.Entities) != 3 {
		t.Fatalf("len(Entities) = %d, want 3", len(doc.Entities))
	}
	if doc.SourceFile != "testdata/valid/valve220.map" {
		t.Errorf("SourceFile = %q", doc.SourceFile)
	}
	if doc.Worldspawn() == nil {
		t.Error("Worldspawn() = nil, want first entity")
	}
	if doc.BrushCount() != 2 {
		t.Errorf("BrushCount() = %d, want 2", doc.BrushCount())
	}

	stats := doc.Stats()
	if stats.Faces != 12 || stats.ValveFaces != 12 || stats.StandardFaces != 0 {
		t.Errorf("Stats faces = %d (valve %d, standard %d), want 12/12/0", stats.Faces, stats.ValveFaces, stats.StandardFaces)
	}

	wantTextures := []string{"CRATE1", "DOOR1", "{FENCE"}
	if got := doc.TextureNames(); !reflect.DeepEqual(got, wantTextures) {
		t.Errorf("TextureNames() = %v, want %v", got, wantTextures)
	}

	door := doc.Entities[2]
	if door.Location.Line != 26 {
		t.Errorf("door Location.Line = %d, want 26", door.Location.Line)
	}
	if door.Brushes[0].Faces[4].Location.Line != 36 {
		t.Errorf("DOOR1 face Location.Line = %d, want 36", door.Brushes[0].Faces[4].Location.Line)
	}
}

func TestParser_Parse_StandardFile(t *testing.T) {
	doc, err := NewParser().Parse("testdata/valid/standard.map")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	faces := doc.Entities[0].Brushes[0].Faces
	if len(faces) != 6 {
		t.Fatalf("len(Faces) = %d, want 6", len(faces))
	}
	std := faces[2].Alignment.(ast.StandardAlignment)
	want := ast.StandardAlignment{Offset: mgl64.Vec2{16, -8}, Rotation: 90, Scale: mgl64.Vec2{0.5, 0.5}}
	if std != want {
		t.Errorf("faces[2].Alignment = %+v, want %+v", std, want)
	}
	if faces[3].Texture != "*lava1" {
		t.Errorf("faces[3].Texture = %q, want %q", faces[3].Texture, "*lava1")
	}
	if doc.Entities[1].IsSolid() {
		t.Error("light should be a point entity")
	}
}

func TestParser_Parse_InvalidFiles(t *testing.T) {
	tests := []struct {
		file   string
		line   int
		column int
		errTyp mapErrors.ErrorType
	}{
		{"testdata/invalid/missing-paren.map", 4, 32, mapErrors.ErrorTypeMissingDelimiter},
		{"testdata/invalid/short-axis.map", 4, 65, mapErrors.ErrorTypeMalformedToken},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.file), func(t *testing.T) {
			_, err := NewParser().Parse(tt.file)
			var perr *mapErrors.Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *errors.Error", err)
			}
			if perr.Location.File != tt.file {
				t.Errorf("Location.File = %q, want %q", perr.Location.File, tt.file)
			}
			if perr.Location.Line != tt.line || perr.Location.Column != tt.column {
				t.Errorf("Location = %d:%d, want %d:%d", perr.Location.Line, perr.Location.Column, tt.line, tt.column)
			}
			if perr.Type != tt.errTyp {
				t.Errorf("Type = %q, want %q", perr.Type, tt.errTyp)
			}
			if !strings.Contains(perr.Context, "->") {
				t.Errorf("Context should mark the failing line, got:\n%s", perr.Context)
			}
		})
	}
}

func TestParser_Parse_MissingFile(t *testing.T) {
	_, err := NewParser().Parse("testdata/nonexistent.map")
	var perr *mapErrors.Error
	if !errors.As(err, &perr) || perr.Type != mapErrors.ErrorTypeIO {
		t.Errorf("Parse() error = %v, want io error", err)
	}
}

func TestParser_WithMaxFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.map")
	src := `{"classname" "worldspawn"}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewParser().WithMaxFileSize(int64(len(src) - 1))
	if _, err := p.Parse(path); err == nil {
		t.Error("Parse() should reject files over the size limit")
	}
	if _, err := p.ParseBytes([]byte(src), "memory://big"); err == nil {
		t.Error("ParseBytes() should reject data over the size limit")
	}

	p.WithMaxFileSize(int64(len(src)))
	if _, err := p.Parse(path); err != nil {
		t.Errorf("Parse() at the size limit failed: %v", err)
	}
}
