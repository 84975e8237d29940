package debug

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
)

// StructureDOT converts the document tree (document, layers, paths) to
// Graphviz DOT. Nodes carrying a layout block are filled, and their label
// shows the region they are placed in.
func StructureDOT(doc document.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph document {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("\n")

	st := doc.Stats()
	fmt.Fprintf(&buf, "  \"doc\" [label=%q, shape=folder];\n",
		fmt.Sprintf("%s\n%d×%d %s\n%d commands", doc.Version, doc.Canvas.Width, doc.Canvas.Height, doc.Canvas.Ratio(), st.Commands))

	for i, l := range doc.Layers {
		lid := fmt.Sprintf("layer/%d", i)
		label := l.ID
		if l.Label != "" && l.Label != l.ID {
			label += "\n" + l.Label
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", lid, strings.Join(nodeAttrs(label, l.Layout), ", "))
		fmt.Fprintf(&buf, "  \"doc\" -> %q;\n", lid)

		for j, p := range l.Paths {
			pid := fmt.Sprintf("%s/path/%d", lid, j)
			label := fmt.Sprintf("%s\n%d commands", p.ID, len(p.Commands))
			fmt.Fprintf(&buf, "  %q [%s];\n", pid, strings.Join(nodeAttrs(label, p.Layout), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", lid, pid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(label string, spec *layout.Specification) []string {
	if spec == nil {
		return []string{fmt.Sprintf("label=%q", label)}
	}
	if spec.Places() {
		label += "\n@ " + string(spec.RegionOr("full_canvas"))
		if spec.Repeat != nil {
			label += fmt.Sprintf(" ×%d", spec.Repeat.Elements())
		}
	}
	if spec.ZIndex != 0 {
		label += fmt.Sprintf("\nz=%d", spec.ZIndex)
	}
	return []string{fmt.Sprintf("label=%q", label), "style=\"rounded,filled\"", "fillcolor=lightyellow"}
}

// RenderStructureSVG renders [StructureDOT] with Graphviz.
func RenderStructureSVG(ctx context.Context, doc document.Document) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(StructureDOT(doc)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
