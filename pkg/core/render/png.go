package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// maxRasterSide bounds the rendered image so a large scale cannot exhaust
// memory.
const maxRasterSide = 8192

// RenderPNG renders d as a PNG image. A scale of 2.0 produces twice the
// canvas resolution.
func (in *Interpreter) RenderPNG(d document.Document, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", scale)
	}
	out, err := in.ConvertToSVG(d)
	if err != nil {
		return nil, err
	}
	w := int(math.Round(float64(d.Canvas.Width) * scale))
	h := int(math.Round(float64(d.Canvas.Height) * scale))
	return ToPNG(out, w, h)
}

// ToPNG rasterizes SVG text to a w×h PNG.
func ToPNG(svgText string, w, h int) ([]byte, error) {
	if w < 1 || h < 1 || w > maxRasterSide || h > maxRasterSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image size %d×%d is outside 1..%d", w, h, maxRasterSide)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svgText), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
