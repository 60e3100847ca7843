package catalog

import (
	"sort"
	"time"
)

// Dialect values stored for a map. A map whose faces use both texture
// alignment dialects is "mixed"; a map without faces has no dialect.
const (
	DialectNone     = ""
	DialectStandard = "standard"
	DialectValve220 = "valve220"
	DialectMixed    = "mixed"
)

// MapRecord is the catalog entry for one map file.
// Maps that fail to parse are recorded too, with ParseError set and the
// content counts left at zero.
type MapRecord struct {
	ID        string    `json:"id" yaml:"id"`     // UUID, stable across re-indexing of the same path
	Path      string    `json:"path" yaml:"path"` // Cleaned absolute path, unique
	SHA256    string    `json:"sha256" yaml:"sha256"`
	SizeBytes int64     `json:"size_bytes" yaml:"size_bytes"`
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`

	Title   string `json:"title,omitempty" yaml:"title,omitempty"` // worldspawn "message"
	Dialect string `json:"dialect" yaml:"dialect"`

	Entities      int `json:"entities" yaml:"entities"`
	PointEntities int `json:"point_entities" yaml:"point_entities"`
	SolidEntities int `json:"solid_entities" yaml:"solid_entities"`
	Brushes       int `json:"brushes" yaml:"brushes"`
	Faces         int `json:"faces" yaml:"faces"`
	StandardFaces int `json:"standard_faces" yaml:"standard_faces"`
	ValveFaces    int `json:"valve_faces" yaml:"valve_faces"`

	LintErrors   int    `json:"lint_errors" yaml:"lint_errors"`
	LintWarnings int    `json:"lint_warnings" yaml:"lint_warnings"`
	ParseError   string `json:"parse_error,omitempty" yaml:"parse_error,omitempty"`

	// Textures maps texture name to the number of faces using it.
	// The editor placeholder texture is not included.
	Textures map[string]int `json:"textures,omitempty" yaml:"textures,omitempty"`

	// ClassNames maps entity classname to the number of entities.
	ClassNames map[string]int `json:"classnames,omitempty" yaml:"classnames,omitempty"`

	RunID     string    `json:"run_id" yaml:"run_id"`
	IndexedAt time.Time `json:"indexed_at" yaml:"indexed_at"`
}

// Failed returns true if the map did not parse.
func (r *MapRecord) Failed() bool {
	return r.ParseError != ""
}

// TextureNames returns the textures used by the map, sorted.
func (r *MapRecord) TextureNames() []string {
	names := make([]string, 0, len(r.Textures))
	for name := range r.Textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query filters catalog listings. Zero values match everything.
type Query struct {
	PathPrefix string // Only maps whose path starts with this prefix
	Texture    string // Only maps using this texture
	ClassName  string // Only maps containing an entity of this classname
	Dialect    string // Only maps in this dialect
	FailedOnly bool   // Only maps that failed to parse
	Limit      int    // Maximum results (0 = no limit)
}

// Usage counts how many maps reference a name and how often in total.
type Usage struct {
	Name  string `json:"name" yaml:"name"`
	Maps  int    `json:"maps" yaml:"maps"`
	Total int    `json:"total" yaml:"total"` // Faces for textures, entities for classnames
}
