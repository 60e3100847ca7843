package main

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	"mercator-hq/valvemap/pkg/mapfile/parser"
)

func resetInspectFlags() {
	inspectFlags.format = "text"
	inspectFlags.geometry = false
	inspectFlags.entity = -1
}

func TestInspectText(t *testing.T) {
	resetInspectFlags()
	cmd, out := testCommand(t)

	if err := runInspect(cmd, []string{"testdata/start.map"}); err != nil {
		t.Fatalf("runInspect() returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"entities: 2 (1 point, 1 solid)",
		"faces:    6 (6 standard, 0 valve220)",
		"*lava1, ground1_6",
		"worldspawn",
		`wad = "gfx/base.wad"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestInspectJSONGeometry(t *testing.T) {
	resetInspectFlags()
	inspectFlags.format = "json"
	inspectFlags.geometry = true
	cmd, out := testCommand(t)

	if err := runInspect(cmd, []string{"testdata/crates.map"}); err != nil {
		t.Fatalf("runInspect() returned error: %v", err)
	}

	var view DocumentView
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(view.Entities) == 0 || len(view.Entities[0].Brushes) == 0 {
		t.Fatalf("expected worldspawn brushes in %+v", view.Entities)
	}

	face := view.Entities[0].Brushes[0].Faces[0]
	if face.Dialect != string(ast.DialectValve220) {
		t.Errorf("Dialect = %q, want valve220", face.Dialect)
	}
	if face.Valve == nil || face.Standard != nil {
		t.Fatalf("face alignment = %+v / %+v, want only valve220", face.Valve, face.Standard)
	}
	if face.Valve.U[1] != -1 {
		t.Errorf("U axis = %v, want y = -1", face.Valve.U)
	}
	if face.Texture != "CRATE1" {
		t.Errorf("Texture = %q, want CRATE1", face.Texture)
	}
}

func TestInspectEntityYAML(t *testing.T) {
	resetInspectFlags()
	inspectFlags.format = "yaml"
	inspectFlags.entity = 1
	cmd, out := testCommand(t)

	if err := runInspect(cmd, []string{"testdata/start.map"}); err != nil {
		t.Fatalf("runInspect() returned error: %v", err)
	}

	var view DocumentView
	if err := yaml.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(view.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(view.Entities))
	}
	if e := view.Entities[0]; e.Index != 1 || e.ClassName != "light" || e.Properties["light"] != "300" {
		t.Errorf("entity = %+v", e)
	}
}

func TestInspectErrors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format string
		entity int
	}{
		{name: "syntax error", file: "testdata/broken.map", format: "text", entity: -1},
		{name: "missing file", file: "testdata/nonexistent.map", format: "text", entity: -1},
		{name: "entity out of range", file: "testdata/start.map", format: "text", entity: 5},
		{name: "csv unsupported", file: "testdata/start.map", format: "csv", entity: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetInspectFlags()
			inspectFlags.format = tt.format
			inspectFlags.entity = tt.entity
			cmd, _ := testCommand(t)

			if err := runInspect(cmd, []string{tt.file}); err == nil {
				t.Error("runInspect() should return error")
			}
		})
	}
}

func TestNewDocumentViewStandardFace(t *testing.T) {
	src := `{ "classname" "worldspawn" { ( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) WALL 8 -4 45 2 0.5 } }`
	doc, err := parser.NewParser().ParseString(src, "inline.map")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	view := newDocumentView(doc, true)
	face := view.Entities[0].Brushes[0].Faces[0]
	if face.Standard == nil || face.Valve != nil {
		t.Fatalf("face alignment = %+v / %+v, want only standard", face.Standard, face.Valve)
	}
	if face.Standard.Offset[0] != 8 || face.Standard.Offset[1] != -4 || face.Standard.Rotation != 45 {
		t.Errorf("standard alignment = %+v", face.Standard)
	}
	if face.Standard.Scale[0] != 2 || face.Standard.Scale[1] != 0.5 {
		t.Errorf("scale = %v", face.Standard.Scale)
	}
	if face.Normal.Len() == 0 {
		t.Error("normal should be set for a non-degenerate plane")
	}

	withoutGeometry := newDocumentView(doc, false)
	if withoutGeometry.Entities[0].Brushes != nil {
		t.Error("brushes should be omitted without geometry")
	}
	if withoutGeometry.Entities[0].BrushCount != 1 {
		t.Errorf("BrushCount = %d, want 1", withoutGeometry.Entities[0].BrushCount)
	}
}
