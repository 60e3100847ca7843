package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/mapfile/ast"
)

var inspectFlags struct {
	format   string
	geometry bool
	entity   int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the structure of a map file",
	Long: `Parse a map file and print its entities, statistics and texture list.

Text output is a summary. JSON and YAML output include every entity's
properties and, with --geometry, every brush face with its plane points,
plane normal and texture alignment.

Examples:
  # Summary
  valvemap inspect maps/start.map

  # Full tree as YAML
  valvemap inspect maps/start.map --format yaml --geometry

  # A single entity as JSON
  valvemap inspect maps/start.map --format json --entity 2 --geometry`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectFlags.format, "format", "f", "text", "output format: text, json, yaml")
	inspectCmd.Flags().BoolVar(&inspectFlags.geometry, "geometry", false, "include brush faces in json/yaml output")
	inspectCmd.Flags().IntVar(&inspectFlags.entity, "entity", -1, "only show the entity with this index")
}

// DocumentView is the printable form of a parsed map.
type DocumentView struct {
	File     string       `json:"file" yaml:"file"`
	Stats    ast.Stats    `json:"stats" yaml:"stats"`
	Textures []string     `json:"textures" yaml:"textures"`
	Entities []EntityView `json:"entities" yaml:"entities"`
}

// EntityView is the printable form of an entity.
type EntityView struct {
	Index      int               `json:"index" yaml:"index"`
	ClassName  string            `json:"classname" yaml:"classname"`
	Line       int               `json:"line" yaml:"line"`
	Properties map[string]string `json:"properties" yaml:"properties"`
	BrushCount int               `json:"brush_count" yaml:"brush_count"`
	Brushes    []BrushView       `json:"brushes,omitempty" yaml:"brushes,omitempty"`
}

// BrushView is the printable form of a brush.
type BrushView struct {
	Line  int        `json:"line" yaml:"line"`
	Faces []FaceView `json:"faces" yaml:"faces"`
}

// FaceView is the printable form of a face. Exactly one of Standard and
// Valve is set, matching Dialect.
type FaceView struct {
	Points   [3]mgl64.Vec3 `json:"points" yaml:"points,flow"`
	Normal   mgl64.Vec3    `json:"normal" yaml:"normal,flow"`
	Dist     float64       `json:"dist" yaml:"dist"`
	Texture  string        `json:"texture" yaml:"texture"`
	Dialect  string        `json:"dialect" yaml:"dialect"`
	Standard *StandardView `json:"standard,omitempty" yaml:"standard,omitempty"`
	Valve    *Valve220View `json:"valve220,omitempty" yaml:"valve220,omitempty"`
}

// StandardView is a standard (Quake) texture alignment.
type StandardView struct {
	Offset   mgl64.Vec2 `json:"offset" yaml:"offset,flow"`
	Rotation float64    `json:"rotation" yaml:"rotation"`
	Scale    mgl64.Vec2 `json:"scale" yaml:"scale,flow"`
}

// Valve220View is a Valve 220 texture alignment.
type Valve220View struct {
	U        mgl64.Vec4 `json:"u" yaml:"u,flow"` // x y z offset
	V        mgl64.Vec4 `json:"v" yaml:"v,flow"`
	Rotation float64    `json:"rotation" yaml:"rotation"`
	Scale    mgl64.Vec2 `json:"scale" yaml:"scale,flow"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(inspectFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := newParser(cfg).Parse(args[0])
	if err != nil {
		return cli.NewCommandError("inspect", err)
	}

	view := newDocumentView(doc, inspectFlags.geometry)
	if inspectFlags.entity >= 0 {
		if inspectFlags.entity >= len(view.Entities) {
			return cli.NewConfigError("--entity", fmt.Sprintf("map has %d entities", len(view.Entities)))
		}
		view.Entities = view.Entities[inspectFlags.entity : inspectFlags.entity+1]
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), view); err != nil {
		return cli.NewInternalError("inspect", err)
	}
	return nil
}

func newDocumentView(doc *ast.Document, geometry bool) *DocumentView {
	view := &DocumentView{
		File:     doc.SourceFile,
		Stats:    doc.Stats(),
		Textures: doc.TextureNames(),
		Entities: make([]EntityView, len(doc.Entities)),
	}

	for i := range doc.Entities {
		e := &doc.Entities[i]
		ev := EntityView{
			Index:      i,
			ClassName:  e.ClassName(),
			Line:       e.Location.Line,
			Properties: e.Properties,
			BrushCount: len(e.Brushes),
		}
		if geometry {
			for _, b := range e.Brushes {
				ev.Brushes = append(ev.Brushes, newBrushView(b))
			}
		}
		view.Entities[i] = ev
	}
	return view
}

func newBrushView(b ast.Brush) BrushView {
	bv := BrushView{Line: b.Location.Line, Faces: make([]FaceView, len(b.Faces))}
	for i, f := range b.Faces {
		fv := FaceView{
			Points:  f.Plane.Points,
			Normal:  f.Plane.Normal(),
			Dist:    f.Plane.Dist(),
			Texture: f.Texture,
			Dialect: string(f.Dialect()),
		}
		switch a := f.Alignment.(type) {
		case ast.StandardAlignment:
			fv.Standard = &StandardView{Offset: a.Offset, Rotation: a.Rotation, Scale: a.Scale}
		case ast.ValveAlignment:
			fv.Valve = &Valve220View{
				U:        a.U.Direction.Vec4(a.U.Offset),
				V:        a.V.Direction.Vec4(a.V.Offset),
				Rotation: a.Rotation,
				Scale:    a.Scale,
			}
		}
		bv.Faces[i] = fv
	}
	return bv
}

// RenderText implements cli.TextRenderer.
func (v *DocumentView) RenderText(w io.Writer) error {
	s := v.Stats
	fmt.Fprintf(w, "%s\n", v.File)
	fmt.Fprintf(w, "  entities: %d (%d point, %d solid)\n", s.Entities, s.PointEntities, s.SolidEntities)
	fmt.Fprintf(w, "  brushes:  %d\n", s.Brushes)
	fmt.Fprintf(w, "  faces:    %d (%d standard, %d valve220)\n", s.Faces, s.StandardFaces, s.ValveFaces)
	fmt.Fprintf(w, "  textures: %s\n", joinOrNone(v.Textures))

	fmt.Fprintln(w, "\nEntities:")
	for _, e := range v.Entities {
		name := e.ClassName
		if name == "" {
			name = "(no classname)"
		}
		kind := "point"
		if e.BrushCount > 0 {
			kind = fmt.Sprintf("solid, %d brush(es)", e.BrushCount)
		}
		fmt.Fprintf(w, "  #%-4d %-28s line %-6d %s\n", e.Index, name, e.Line, kind)

		keys := make([]string, 0, len(e.Properties))
		for k := range e.Properties {
			if k != "classname" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "        %s = %q\n", k, e.Properties[k])
		}
	}
	return nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
