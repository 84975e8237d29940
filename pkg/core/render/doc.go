// Package render turns unified layered documents into SVG and back.
//
// # Interpretation
//
// An [Interpreter] writes one root <svg> element whose width, height and
// viewBox follow the document canvas. Each layer becomes a <g> carrying the
// layer id (and its label as data-label); each path becomes a <path> whose d
// attribute is produced by [PathData] and whose style fields become
// presentation attributes.
//
// Layers keep document order. Within a layer, paths are stable-sorted by
// their layout zIndex, so paths without a layout keep their relative order.
//
// # Layout Placement
//
// A path or layer with a layout specification is wrapped in a <g transform>
// that moves the element's local bounding box into the box resolved by
// [coords.Mapper]. The element's own anchor point lands on the region's
// anchor point. Without a size the element keeps its natural size; with one,
// the local bounds are scaled to it.
//
// Grid and radial repetitions emit one copy per element. Copies are
// centered on the resolved position and their ids get a "-k" suffix.
//
//	doc, _ := io.ReadDocument("icon.json")
//	out, err := render.New(render.WithOptimize()).ConvertToSVG(doc)
//
// # Other Operations
//
//   - [Bounds] is the bounding box over raw path coordinates.
//   - [OptimizeSVG] shrinks SVG text without changing its meaning.
//   - [ConvertToAspectRatio] moves a document to another canvas.
//   - [Interpreter.RenderPNG] rasterizes the SVG in process.
//   - [ImportSVG] reads interpreter output back into a document.
package render
