// Package render turns page layouts into encoded sheet images.
//
// The renderer only draws: it receives cells that already carry either a
// decoded thumbnail or a placeholder marker, paints them onto a grid
// canvas, and encodes the result. Asset resolution and failure accounting
// belong to the pipeline.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Output formats.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output encodings.
var ValidFormats = map[string]bool{
	FormatJPEG: true,
	FormatPNG:  true,
}

// jpegQuality matches the store's historical sheet exports.
const jpegQuality = 90

// Cell is one tile to draw: a thumbnail, a placeholder, or padding.
type Cell struct {
	// Image is the tile thumbnail. Nil for placeholders and padding.
	Image image.Image

	// Label is drawn on placeholder tiles, typically the artist and title.
	Label string

	// Placeholder marks a record tile whose asset could not be resolved.
	// A cell with no image and Placeholder false is padding.
	Placeholder bool
}

// Renderer encodes one page grid into an image file payload.
type Renderer interface {
	Render(ctx context.Context, rows, cols int, cells []Cell, tilePx int) ([]byte, error)
}

// GridRenderer draws tiles onto a white canvas with a 1px gutter per tile
// and encodes the sheet as JPEG or PNG.
type GridRenderer struct {
	format string
	font   *truetype.Font
}

// NewGridRenderer creates a renderer encoding to the given format.
func NewGridRenderer(format string) (*GridRenderer, error) {
	if !ValidFormats[format] {
		return nil, fmt.Errorf("invalid format: %q (must be 'jpg' or 'png')", format)
	}
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse placeholder font: %w", err)
	}
	return &GridRenderer{format: format, font: fnt}, nil
}

// Render draws cells row-major onto a rows×cols grid of tilePx tiles.
// len(cells) must equal rows*cols.
func (r *GridRenderer) Render(ctx context.Context, rows, cols int, cells []Cell, tilePx int) ([]byte, error) {
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("cell count %d does not fill a %dx%d grid", len(cells), rows, cols)
	}
	if tilePx <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", tilePx)
	}

	dc := gg.NewContext(cols*tilePx, rows*tilePx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	face := truetype.NewFace(r.font, &truetype.Options{Size: float64(tilePx) / 12})
	dc.SetFontFace(face)

	for i, cell := range cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i / cols
		col := i % cols
		x := col * tilePx
		y := row * tilePx

		switch {
		case cell.Image != nil:
			thumb := cell.Image
			inner := tilePx - 2
			if b := thumb.Bounds(); b.Dx() != inner || b.Dy() != inner {
				thumb = imaging.Fill(thumb, inner, inner, imaging.Center, imaging.Lanczos)
			}
			dc.DrawImage(thumb, x+1, y+1)
		case cell.Placeholder:
			r.drawPlaceholder(dc, x, y, tilePx, cell.Label)
		default:
			// Padding stays canvas-white.
		}
	}

	return r.encode(dc.Image())
}

// drawPlaceholder paints a gray tile with the record label centered on it.
func (r *GridRenderer) drawPlaceholder(dc *gg.Context, x, y, tilePx int, label string) {
	dc.SetRGB255(229, 229, 229)
	dc.DrawRectangle(float64(x+1), float64(y+1), float64(tilePx-2), float64(tilePx-2))
	dc.Fill()

	if label == "" {
		label = "no image"
	}
	dc.SetRGB255(96, 96, 96)
	cx := float64(x) + float64(tilePx)/2
	cy := float64(y) + float64(tilePx)/2
	dc.DrawStringWrapped(label, cx, cy, 0.5, 0.5, float64(tilePx)-8, 1.2, gg.AlignCenter)
}

// encode serializes the canvas in the configured format.
func (r *GridRenderer) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	switch r.format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Ext returns the file extension for the renderer's format.
func (r *GridRenderer) Ext() string {
	return r.format
}

// Ensure GridRenderer implements Renderer.
var _ Renderer = (*GridRenderer)(nil)
