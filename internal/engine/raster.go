package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Crop returns the portion of img covered by r, clamped to the image bounds.
// The result is a copy; mutating it does not affect img.
func Crop(img image.Image, r Rect) (image.Image, error) {
	bounds := r.ImageRect().Intersect(img.Bounds())
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: crop region outside image", ErrInvalidRect)
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out, nil
}

// PadBorder returns img surrounded by a uniform border of the given width
// in pixels, filled with the fill color.
func PadBorder(img image.Image, width int, fill color.Color) image.Image {
	if width <= 0 {
		return img
	}

	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx()+2*width, bounds.Dy()+2*width))
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(width, width, width+bounds.Dx(), width+bounds.Dy()), img, bounds.Min, draw.Src)
	return out
}

// FillRects paints the given pixel-space rectangles onto a copy of img
// with the fill color.
func FillRects(img image.Image, rects []image.Rectangle, fill color.Color) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	uniform := image.NewUniform(fill)
	for _, r := range rects {
		draw.Draw(out, r.Intersect(bounds), uniform, image.Point{}, draw.Src)
	}
	return out
}

// EncodePNG serializes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
