package ast

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func cubeFace(texture string, p0, p1, p2 mgl64.Vec3) Face {
	return Face{
		Plane:     Plane{Points: [3]mgl64.Vec3{p0, p1, p2}},
		Texture:   texture,
		Alignment: StandardAlignment{Scale: mgl64.Vec2{1, 1}},
	}
}

func testDocument() *Document {
	return &Document{
		Entities: []Entity{
			{
				Properties: Properties{"classname": "worldspawn"},
				Brushes: []Brush{{Faces: []Face{
					cubeFace("WALL", mgl64.Vec3{-64, -64, -16}, mgl64.Vec3{-64, -63, -16}, mgl64.Vec3{-64, -64, -15}),
					cubeFace("FLOOR", mgl64.Vec3{64, 64, 16}, mgl64.Vec3{64, 65, 16}, mgl64.Vec3{65, 64, 16}),
					cubeFace(EditorPlaceholderTexture, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}),
					{
						Plane:     Plane{Points: [3]mgl64.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}}},
						Texture:   "WALL",
						Alignment: ValveAlignment{Scale: mgl64.Vec2{1, 1}},
					},
				}}},
			},
			{Properties: Properties{"classname": "light", "light": "300"}},
			{Properties: Properties{"classname": "light"}},
			{Properties: Properties{"classname": "sensor"}, Brushes: []Brush{{}}},
		},
	}
}

func TestPlane_Normal(t *testing.T) {
	tests := []struct {
		name   string
		points [3]mgl64.Vec3
		normal mgl64.Vec3
		dist   float64
	}{
		{"west face", [3]mgl64.Vec3{{-64, -64, -16}, {-64, -63, -16}, {-64, -64, -15}}, mgl64.Vec3{-1, 0, 0}, 64},
		{"top face", [3]mgl64.Vec3{{64, 64, 16}, {64, 65, 16}, {65, 64, 16}}, mgl64.Vec3{0, 0, 1}, 16},
		{"collinear", [3]mgl64.Vec3{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}, mgl64.Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plane{Points: tt.points}
			if got := p.Normal(); !got.ApproxEqual(tt.normal) {
				t.Errorf("Normal() = %v, want %v", got, tt.normal)
			}
			if got := p.Dist(); got != tt.dist {
				t.Errorf("Dist() = %v, want %v", got, tt.dist)
			}
		})
	}
}

func TestPlane_IsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points [3]mgl64.Vec3
		want   bool
	}{
		{"valid", [3]mgl64.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}, false},
		{"repeated point", [3]mgl64.Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}}, true},
		{"collinear", [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, true},
	}

	for _, tt := range tests {
		if got := (Plane{Points: tt.points}).IsDegenerate(); got != tt.want {
			t.Errorf("%s: IsDegenerate() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDocument_TextureNames(t *testing.T) {
	got := testDocument().TextureNames()
	want := []string{"FLOOR", "WALL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TextureNames() = %v, want %v", got, want)
	}

	empty := &Document{}
	if names := empty.TextureNames(); len(names) != 0 {
		t.Errorf("TextureNames() on empty document = %v", names)
	}
}

func TestDocument_Stats(t *testing.T) {
	stats := testDocument().Stats()

	if stats.Entities != 4 || stats.PointEntities != 2 || stats.SolidEntities != 2 {
		t.Errorf("entity counts = %d/%d/%d, want 4/2/2", stats.Entities, stats.PointEntities, stats.SolidEntities)
	}
	if stats.Brushes != 2 {
		t.Errorf("Brushes = %d, want 2", stats.Brushes)
	}
	if stats.Faces != 4 || stats.StandardFaces != 3 || stats.ValveFaces != 1 {
		t.Errorf("face counts = %d/%d/%d, want 4/3/1", stats.Faces, stats.StandardFaces, stats.ValveFaces)
	}
	if stats.ClassNames["light"] != 2 {
		t.Errorf("ClassNames[light] = %d, want 2", stats.ClassNames["light"])
	}
	if stats.Textures["WALL"] != 2 || stats.Textures[EditorPlaceholderTexture] != 1 {
		t.Errorf("Textures = %v", stats.Textures)
	}
}

func TestDocument_Queries(t *testing.T) {
	doc := testDocument()

	if doc.Worldspawn() == nil {
		t.Error("Worldspawn() = nil")
	}
	if got := doc.EntitiesByClass("light"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("EntitiesByClass(light) = %v, want [1 2]", got)
	}
	if !doc.Entities[3].IsSensor() || doc.Entities[1].IsSensor() {
		t.Error("IsSensor() should only match classname sensor")
	}
	if v, ok := doc.Entities[1].Properties.Get("light"); !ok || v != "300" {
		t.Errorf("Get(light) = %q, %v", v, ok)
	}
	if _, ok := doc.Entities[1].Properties.Get("Light"); ok {
		t.Error("property keys must be case-sensitive")
	}

	noWorld := &Document{Entities: []Entity{{Properties: Properties{"classname": "light"}}}}
	if noWorld.Worldspawn() != nil {
		t.Error("Worldspawn() should be nil when the first entity is not worldspawn")
	}
}

func TestFace_Dialect(t *testing.T) {
	if d := (&Face{}).Dialect(); d != DialectUnknown {
		t.Errorf("Dialect() without alignment = %q", d)
	}
	if d := (&Face{Alignment: ValveAlignment{}}).Dialect(); d != DialectValve220 {
		t.Errorf("Dialect() = %q, want %q", d, DialectValve220)
	}
}

type countingVisitor struct {
	entities, brushes, faces int
	stopAt                   int
}

var errStop = errors.New("stop")

func (v *countingVisitor) VisitEntity(int, *Entity) error {
	v.entities++
	return nil
}

func (v *countingVisitor) VisitBrush(*Entity, int, *Brush) error {
	v.brushes++
	return nil
}

func (v *countingVisitor) VisitFace(*Brush, int, *Face) error {
	v.faces++
	if v.stopAt > 0 && v.faces == v.stopAt {
		return errStop
	}
	return nil
}

func TestWalk(t *testing.T) {
	v := &countingVisitor{}
	if err := Walk(testDocument(), v); err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if v.entities != 4 || v.brushes != 2 || v.faces != 4 {
		t.Errorf("visited %d/%d/%d, want 4/2/4", v.entities, v.brushes, v.faces)
	}

	v = &countingVisitor{stopAt: 2}
	if err := Walk(testDocument(), v); !errors.Is(err, errStop) {
		t.Errorf("Walk() error = %v, want errStop", err)
	}
	if v.entities != 1 {
		t.Errorf("Walk() continued after error: entities = %d", v.entities)
	}
}

func TestLocation(t *testing.T) {
	loc := Location{File: "e1m1.map", Offset: 10, Line: 2, Column: 3}
	if loc.String() != "e1m1.map:2:3" {
		t.Errorf("String() = %q", loc.String())
	}
	if !loc.IsValid() {
		t.Error("IsValid() = false")
	}
	if (Location{}).String() != "<unknown>" || (Location{}).IsValid() {
		t.Error("zero Location should be unknown and invalid")
	}
}
