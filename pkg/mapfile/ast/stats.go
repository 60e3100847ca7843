package ast

// Stats summarizes the contents of a Document.
type Stats struct {
	Entities      int            `json:"entities" yaml:"entities"`
	PointEntities int            `json:"point_entities" yaml:"point_entities"`
	SolidEntities int            `json:"solid_entities" yaml:"solid_entities"`
	Brushes       int            `json:"brushes" yaml:"brushes"`
	Faces         int            `json:"faces" yaml:"faces"`
	StandardFaces int            `json:"standard_faces" yaml:"standard_faces"`
	ValveFaces    int            `json:"valve_faces" yaml:"valve_faces"`
	ClassNames    map[string]int `json:"classnames" yaml:"classnames"`
	Textures      map[string]int `json:"textures" yaml:"textures"`
}

// Stats walks the document and returns its summary. Texture counts are per
// face and include the editor placeholder texture.
func (d *Document) Stats() Stats {
	c := &statsCollector{stats: Stats{
		ClassNames: make(map[string]int),
		Textures:   make(map[string]int),
	}}
	// statsCollector never fails
	_ = Walk(d, c)
	return c.stats
}

type statsCollector struct {
	stats Stats
}

func (c *statsCollector) VisitEntity(_ int, entity *Entity) error {
	c.stats.Entities++
	if entity.IsSolid() {
		c.stats.SolidEntities++
	} else {
		c.stats.PointEntities++
	}
	if name := entity.ClassName(); name != "" {
		c.stats.ClassNames[name]++
	}
	return nil
}

func (c *statsCollector) VisitBrush(_ *Entity, _ int, _ *Brush) error {
	c.stats.Brushes++
	return nil
}

func (c *statsCollector) VisitFace(_ *Brush, _ int, face *Face) error {
	c.stats.Faces++
	switch face.Alignment.(type) {
	case StandardAlignment:
		c.stats.StandardFaces++
	case ValveAlignment:
		c.stats.ValveFaces++
	}
	c.stats.Textures[face.Texture]++
	return nil
}
