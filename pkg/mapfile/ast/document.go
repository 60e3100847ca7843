package ast

import "sort"

// EditorPlaceholderTexture is the texture TrenchBroom assigns to faces that
// have not been textured yet. It never refers to a real asset.
const EditorPlaceholderTexture = "__TB_empty"

// Document is the root node of a parsed map file.
// Entities appear in file order; the first is conventionally worldspawn.
type Document struct {
	Entities   []Entity
	SourceFile string // Path or pseudo-path the document was parsed from
}

// Entity is one "{ ... }" block at the top level of a map file.
// An entity without brushes is a point entity (a light, a spawn marker);
// an entity with brushes is a solid entity.
type Entity struct {
	Properties Properties
	Brushes    []Brush
	Location   Location
}

// Properties holds an entity's key/value pairs. Keys are case-sensitive.
// When a key is repeated inside one entity, the last value in the file wins.
type Properties map[string]string

// Get returns the value for key and whether it was present.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// ClassName returns the "classname" property, or "" when absent.
func (p Properties) ClassName() string {
	return p["classname"]
}

// ClassName is shorthand for e.Properties.ClassName().
func (e *Entity) ClassName() string {
	return e.Properties.ClassName()
}

// IsPoint returns true if the entity carries no brushes.
func (e *Entity) IsPoint() bool {
	return len(e.Brushes) == 0
}

// IsSolid returns true if the entity carries at least one brush.
func (e *Entity) IsSolid() bool {
	return len(e.Brushes) > 0
}

// IsSensor returns true for trigger volumes tagged with classname "sensor".
func (e *Entity) IsSensor() bool {
	return e.ClassName() == "sensor"
}

// Worldspawn returns the first entity when it is the worldspawn, or nil.
func (d *Document) Worldspawn() *Entity {
	if len(d.Entities) == 0 || d.Entities[0].ClassName() != "worldspawn" {
		return nil
	}
	return &d.Entities[0]
}

// EntitiesByClass returns the indexes of all entities with the given classname,
// in file order.
func (d *Document) EntitiesByClass(classname string) []int {
	var indexes []int
	for i := range d.Entities {
		if d.Entities[i].ClassName() == classname {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// TextureNames returns every texture referenced by a face, sorted and
// deduplicated. The editor placeholder texture is left out.
func (d *Document) TextureNames() []string {
	seen := make(map[string]struct{})
	for _, entity := range d.Entities {
		for _, brush := range entity.Brushes {
			for _, face := range brush.Faces {
				if face.Texture == EditorPlaceholderTexture {
					continue
				}
				seen[face.Texture] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityCount returns the number of entities in the document.
func (d *Document) EntityCount() int {
	return len(d.Entities)
}

// BrushCount returns the total number of brushes across all entities.
func (d *Document) BrushCount() int {
	n := 0
	for _, entity := range d.Entities {
		n += len(entity.Brushes)
	}
	return n
}
