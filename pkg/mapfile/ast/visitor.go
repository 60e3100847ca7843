package ast

// Visitor provides an interface for traversing a Document.
// Implement this interface to inspect entities, brushes and faces
// (validation, statistics, export, etc.).
type Visitor interface {
	VisitEntity(index int, entity *Entity) error
	VisitBrush(entity *Entity, index int, brush *Brush) error
	VisitFace(brush *Brush, index int, face *Face) error
}

// Walk traverses the document in file order and calls the visitor for each
// node. It returns the first error encountered, or nil if traversal completes.
func Walk(doc *Document, visitor Visitor) error {
	for i := range doc.Entities {
		entity := &doc.Entities[i]
		if err := visitor.VisitEntity(i, entity); err != nil {
			return err
		}

		for j := range entity.Brushes {
			brush := &entity.Brushes[j]
			if err := visitor.VisitBrush(entity, j, brush); err != nil {
				return err
			}

			for k := range brush.Faces {
				if err := visitor.VisitFace(brush, k, &brush.Faces[k]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
